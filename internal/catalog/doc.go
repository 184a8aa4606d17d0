// Package catalog seeds and searches the known-title catalog.
//
// Seed performs the one-time CSV ingestion when the catalog table is empty.
// Matcher resolves free-text titles: FindExact returns at most one canonical
// entry, FindFuzzy a ranked shortlist. Both match case-insensitively; callers
// fall through exact, then fuzzy, then manual entry.
package catalog
