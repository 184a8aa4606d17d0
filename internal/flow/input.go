package flow

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"reelog/internal/services"
	"reelog/internal/store"
)

type entryDetails struct {
	genre       string
	mediaType   string
	certificate string
}

// parseDetails splits "genre[, type[, certificate]]". Only the genre is
// required; the type defaults to Film and the certificate to empty.
func parseDetails(text string) (entryDetails, error) {
	parts := strings.Split(text, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	details := entryDetails{mediaType: store.TypeFilm}
	if len(parts) == 0 || parts[0] == "" {
		return details, services.Wrap(services.ErrValidation, "flow", "details",
			"genre is required", nil)
	}
	details.genre = parts[0]
	if len(parts) > 1 && parts[1] != "" {
		details.mediaType = parts[1]
	}
	if len(parts) > 2 {
		details.certificate = parts[2]
	}
	return details, nil
}

// parseRating accepts a real number in [1, 10].
func parseRating(text string) (float64, error) {
	rating, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "flow", "rating",
			fmt.Sprintf("%q is not numeric", text), nil)
	}
	if math.IsNaN(rating) || rating < 1 || rating > 10 {
		return 0, services.Wrap(services.ErrValidation, "flow", "rating",
			fmt.Sprintf("%g is outside [1, 10]", rating), nil)
	}
	return rating, nil
}

// parseDate accepts the "today" token or a YYYY-MM-DD date. "today" resolves
// against the injected clock at parse time.
func parseDate(text string, now func() time.Time) (time.Time, error) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "today" {
		year, month, day := now().UTC().Date()
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(store.DateLayout, trimmed)
	if err != nil {
		return time.Time{}, services.Wrap(services.ErrValidation, "flow", "date",
			fmt.Sprintf("%q is not a YYYY-MM-DD date", text), nil)
	}
	return date, nil
}

// parseDuration accepts the "auto" token or a non-negative minute count.
func parseDuration(text string, series bool, autoFilm, autoSeries int64) (int64, error) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	if trimmed == "auto" {
		if series {
			return autoSeries, nil
		}
		return autoFilm, nil
	}
	minutes, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "flow", "duration",
			fmt.Sprintf("%q is not a minute count", text), nil)
	}
	if minutes < 0 {
		return 0, services.Wrap(services.ErrValidation, "flow", "duration",
			"minutes must not be negative", nil)
	}
	return minutes, nil
}

// parseChoice reads a 1-based menu index and converts it to 0-based.
func parseChoice(text string, options int) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, services.Wrap(services.ErrValidation, "flow", "choice",
			fmt.Sprintf("%q is not an option number", text), nil)
	}
	if index < 1 || index > options {
		return 0, services.Wrap(services.ErrValidation, "flow", "choice",
			fmt.Sprintf("option %d is out of range", index), nil)
	}
	return index - 1, nil
}
