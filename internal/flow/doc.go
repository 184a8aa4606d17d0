// Package flow implements the guided dialogue that records one viewing
// event: title resolution against the catalog, then rating, date, and
// duration collection, ending in a single append to the viewing log. Each
// user holds at most one dialogue at a time.
package flow
