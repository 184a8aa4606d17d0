package testsupport

import (
	"context"
	"testing"
	"time"

	"reelog/internal/config"
	"reelog/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedEntry inserts a catalog entry for tests using the provided store.
func SeedEntry(t testing.TB, st *store.Store, entry store.CatalogEntry) *store.CatalogEntry {
	t.Helper()

	created, err := st.InsertEntry(context.Background(), entry)
	if err != nil {
		t.Fatalf("store.InsertEntry: %v", err)
	}
	return created
}

// LogView appends a viewing event for tests using the provided store.
func LogView(t testing.TB, st *store.Store, event store.ViewingEvent) *store.ViewingEvent {
	t.Helper()

	created, err := st.InsertView(context.Background(), event)
	if err != nil {
		t.Fatalf("store.InsertView: %v", err)
	}
	return created
}

// Date builds a naive calendar date for tests.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FloatPtr returns a pointer to the provided rating value.
func FloatPtr(v float64) *float64 {
	return &v
}

// IntPtr returns a pointer to the provided integer value.
func IntPtr(v int64) *int64 {
	return &v
}

// Ctx returns a background context for store calls in tests.
func Ctx() context.Context {
	return context.Background()
}
