// Package insights derives reporting from the viewing log: per-type and
// per-genre statistics, genre-affinity recommendations that exclude
// already-seen titles, and rolling window-over-window progress comparisons.
//
// Queries are built with squirrel so genre and seen-title filters are composed
// dynamically; the no-favorite-genres case takes an explicit fallback branch
// instead of degrading into an empty IN clause.
package insights
