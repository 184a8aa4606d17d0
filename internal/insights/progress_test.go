package insights_test

import (
	"context"
	"testing"
	"time"

	"reelog/internal/store"
	"reelog/internal/testsupport"
)

func TestProgressWindowsAreContiguous(t *testing.T) {
	service, _ := newService(t)
	today := testsupport.Date(2026, time.June, 30)

	report, err := service.Progress(context.Background(), 1, today, 30)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}

	if !report.Current.End.Equal(today) {
		t.Fatalf("current window must end today, got %s", report.Current.End)
	}
	if got := report.Current.End.Sub(report.Current.Start); got != 29*24*time.Hour {
		t.Fatalf("current window spans %s, want 29 days", got)
	}
	if got := report.Previous.End.Sub(report.Previous.Start); got != 29*24*time.Hour {
		t.Fatalf("previous window spans %s, want 29 days", got)
	}
	if !report.Previous.End.AddDate(0, 0, 1).Equal(report.Current.Start) {
		t.Fatalf("windows not contiguous: previous ends %s, current starts %s",
			report.Previous.End, report.Current.Start)
	}
}

func TestProgressSplitsEventsByWindow(t *testing.T) {
	service, st := newService(t)
	today := testsupport.Date(2026, time.June, 30)

	// Current window: June 1 through June 30.
	logView(t, st, 1, "Dune", store.TypeFilm, "Sci-Fi", 9, testsupport.Date(2026, time.June, 1), 155)
	logView(t, st, 1, "Heat", store.TypeFilm, "Crime", 7, testsupport.Date(2026, time.June, 30), 170)
	// Previous window: May 2 through May 31.
	logView(t, st, 1, "Fargo", store.TypeSeries, "Crime", 10, testsupport.Date(2026, time.May, 2), 45)
	// Before both windows; must not be counted.
	logView(t, st, 1, "Alien", store.TypeFilm, "Sci-Fi", 8, testsupport.Date(2026, time.May, 1), 117)

	report, err := service.Progress(context.Background(), 1, today, 30)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}

	if report.Current.Count != 2 || report.Current.TotalMinutes != 325 {
		t.Fatalf("unexpected current window: %+v", report.Current)
	}
	if report.Current.AvgRating == nil || *report.Current.AvgRating != 8 {
		t.Fatalf("unexpected current avg: %#v", report.Current.AvgRating)
	}
	if report.Previous.Count != 1 || report.Previous.TotalMinutes != 45 {
		t.Fatalf("unexpected previous window: %+v", report.Previous)
	}
}

func TestProgressEmptyWindowHasNilAverage(t *testing.T) {
	service, st := newService(t)
	today := testsupport.Date(2026, time.June, 30)

	logView(t, st, 1, "Dune", store.TypeFilm, "Sci-Fi", 9, testsupport.Date(2026, time.June, 15), 155)

	report, err := service.Progress(context.Background(), 1, today, 30)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if report.Previous.Count != 0 {
		t.Fatalf("expected empty previous window, got %+v", report.Previous)
	}
	if report.Previous.AvgRating != nil {
		t.Fatalf("empty window must have nil average, got %v", *report.Previous.AvgRating)
	}
}

func TestProgressIsolatesUsers(t *testing.T) {
	service, st := newService(t)
	today := testsupport.Date(2026, time.June, 30)

	logView(t, st, 1, "Dune", store.TypeFilm, "Sci-Fi", 9, testsupport.Date(2026, time.June, 15), 155)
	logView(t, st, 2, "Heat", store.TypeFilm, "Crime", 7, testsupport.Date(2026, time.June, 15), 170)

	report, err := service.Progress(context.Background(), 2, today, 30)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if report.Current.Count != 1 || report.Current.TotalMinutes != 170 {
		t.Fatalf("unexpected window for user 2: %+v", report.Current)
	}
}
