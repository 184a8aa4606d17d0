package catalog_test

import (
	"context"
	"testing"

	"reelog/internal/catalog"
	"reelog/internal/store"
	"reelog/internal/testsupport"
)

func seedMatcherCatalog(t *testing.T) (*catalog.Matcher, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedEntry(t, st, store.CatalogEntry{
		Name: "Dune", Type: store.TypeFilm, Genre: "Sci-Fi", IMDBRate: testsupport.FloatPtr(8.0),
	})
	testsupport.SeedEntry(t, st, store.CatalogEntry{
		Name: "Dune: Part Two", Type: store.TypeFilm, Genre: "Sci-Fi", IMDBRate: testsupport.FloatPtr(8.5),
	})
	testsupport.SeedEntry(t, st, store.CatalogEntry{
		Name: "Duneland Diaries", Type: store.TypeSeries, Genre: "Documentary",
	})
	testsupport.SeedEntry(t, st, store.CatalogEntry{
		Name: "Heat", Type: store.TypeFilm, Genre: "Crime", IMDBRate: testsupport.FloatPtr(8.3),
	})
	return catalog.NewMatcher(st), st
}

func TestFindExactCaseInsensitive(t *testing.T) {
	matcher, _ := seedMatcherCatalog(t)

	entry, err := matcher.FindExact(context.Background(), "dune")
	if err != nil {
		t.Fatalf("FindExact: %v", err)
	}
	if entry == nil || entry.Name != "Dune" {
		t.Fatalf("expected the Dune entry, got %#v", entry)
	}
}

func TestFindExactSubstringFallback(t *testing.T) {
	matcher, _ := seedMatcherCatalog(t)

	// No entry is named exactly "part two"; the substring fallback has a
	// single candidate and claims it.
	entry, err := matcher.FindExact(context.Background(), "part two")
	if err != nil {
		t.Fatalf("FindExact: %v", err)
	}
	if entry == nil || entry.Name != "Dune: Part Two" {
		t.Fatalf("expected Dune: Part Two, got %#v", entry)
	}
}

func TestFindExactAmbiguousSubstringDefers(t *testing.T) {
	matcher, _ := seedMatcherCatalog(t)

	// "dun" is contained in three names and matches none exactly; the
	// shortlist path owns that case.
	entry, err := matcher.FindExact(context.Background(), "dun")
	if err != nil {
		t.Fatalf("FindExact: %v", err)
	}
	if entry != nil {
		t.Fatalf("ambiguous substring should not resolve, got %#v", entry)
	}
}

func TestFindExactNoMatch(t *testing.T) {
	matcher, _ := seedMatcherCatalog(t)

	entry, err := matcher.FindExact(context.Background(), "Xyzzy123")
	if err != nil {
		t.Fatalf("FindExact: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no match, got %#v", entry)
	}
}

func TestFindExactEmptyCatalog(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	matcher := catalog.NewMatcher(st)

	entry, err := matcher.FindExact(context.Background(), "anything")
	if err != nil {
		t.Fatalf("FindExact: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil on empty catalog, got %#v", entry)
	}
}

func TestFindFuzzyRankedAndCapped(t *testing.T) {
	matcher, _ := seedMatcherCatalog(t)

	entries, err := matcher.FindFuzzy(context.Background(), "DUNE", 2)
	if err != nil {
		t.Fatalf("FindFuzzy: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(entries))
	}
	if entries[0].Name != "Dune: Part Two" || entries[1].Name != "Dune" {
		t.Fatalf("unexpected ranking: %q, %q", entries[0].Name, entries[1].Name)
	}
}

func TestFindFuzzyUnratedLast(t *testing.T) {
	matcher, _ := seedMatcherCatalog(t)

	entries, err := matcher.FindFuzzy(context.Background(), "dune", 5)
	if err != nil {
		t.Fatalf("FindFuzzy: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(entries))
	}
	if entries[2].Name != "Duneland Diaries" {
		t.Fatalf("expected unrated entry last, got %q", entries[2].Name)
	}
}

func TestFindFuzzyEscapesLikeWildcards(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "100% Wolf", Type: store.TypeFilm, Genre: "Animation"})
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Wolf", Type: store.TypeFilm, Genre: "Drama"})
	matcher := catalog.NewMatcher(st)

	entries, err := matcher.FindFuzzy(context.Background(), "100%", 5)
	if err != nil {
		t.Fatalf("FindFuzzy: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "100% Wolf" {
		t.Fatalf("wildcards not escaped: %#v", entries)
	}
}

func TestFindBlankTitle(t *testing.T) {
	matcher, _ := seedMatcherCatalog(t)

	if entry, err := matcher.FindExact(context.Background(), "   "); err != nil || entry != nil {
		t.Fatalf("blank exact lookup: entry=%#v err=%v", entry, err)
	}
	if entries, err := matcher.FindFuzzy(context.Background(), "", 5); err != nil || entries != nil {
		t.Fatalf("blank fuzzy lookup: entries=%#v err=%v", entries, err)
	}
}
