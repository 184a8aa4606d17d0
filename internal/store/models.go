package store

import (
	"strings"
	"time"
)

// Media type labels used in the catalog. Free-form values are accepted for
// manually entered titles; only the series label changes behaviour.
const (
	TypeFilm   = "Film"
	TypeSeries = "Series"
)

// CatalogEntry is a known title with its static metadata. Entries are
// immutable once created; there is no update path.
type CatalogEntry struct {
	ID          int64
	Name        string
	Type        string
	Genre       string
	Certificate string
	IMDBRate    *float64
	Votes       *int64
	Episodes    *int64
}

// IsSeries reports whether the entry uses the per-episode auto duration.
func (e CatalogEntry) IsSeries() bool {
	return strings.EqualFold(strings.TrimSpace(e.Type), TypeSeries)
}

// ViewingEvent is one logged viewing. The catalog fields are denormalized
// copies captured at logging time; later catalog changes never rewrite them.
type ViewingEvent struct {
	ID              int64
	UserID          int64
	Name            string
	Type            string
	Genre           string
	Certificate     string
	IMDBRate        *float64
	UserRate        float64
	ViewDate        time.Time
	DurationMinutes int64
}

// DateLayout is the calendar-date format used for view_date. Dates are naive;
// no time of day or timezone is recorded.
const DateLayout = "2006-01-02"
