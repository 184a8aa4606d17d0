package flow_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"reelog/internal/catalog"
	"reelog/internal/flow"
	"reelog/internal/store"
	"reelog/internal/testsupport"
)

var fixedToday = testsupport.Date(2026, time.June, 15)

func newManager(t *testing.T) (*flow.Manager, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	manager := flow.NewManager(st, catalog.NewMatcher(st), flow.Options{
		Clock: func() time.Time { return fixedToday },
	})
	return manager, st
}

func handle(t *testing.T, m *flow.Manager, userID int64, text string) flow.Reply {
	t.Helper()
	reply, ok, err := m.Handle(context.Background(), userID, text)
	if err != nil {
		t.Fatalf("Handle(%q): %v", text, err)
	}
	if !ok {
		t.Fatalf("Handle(%q): no active dialogue", text)
	}
	return reply
}

func lastView(t *testing.T, st *store.Store, userID int64) store.ViewingEvent {
	t.Helper()
	views, err := st.LastViews(context.Background(), userID, 1)
	if err != nil {
		t.Fatalf("LastViews: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected one event, got %d", len(views))
	}
	return views[0]
}

func TestFlowExactMatchAutoDuration(t *testing.T) {
	manager, st := newManager(t)
	testsupport.SeedEntry(t, st, store.CatalogEntry{
		Name: "Dune", Type: store.TypeFilm, Genre: "Sci-Fi", IMDBRate: testsupport.FloatPtr(8.0),
	})

	begin := manager.Begin(context.Background(), 1)
	if !begin.RemoveKeyboard {
		t.Fatal("title prompt should hide the keyboard")
	}

	reply := handle(t, manager, 1, "dune")
	if !strings.Contains(reply.Text, "Dune") {
		t.Fatalf("expected catalog hit in reply, got %q", reply.Text)
	}
	handle(t, manager, 1, "9")
	handle(t, manager, 1, "today")
	done := handle(t, manager, 1, "auto")
	if !done.Done {
		t.Fatalf("flow should finish after duration, got %+v", done)
	}
	if manager.Active(1) {
		t.Fatal("session should be gone after completion")
	}

	event := lastView(t, st, 1)
	if event.Name != "Dune" || event.UserRate != 9 || event.DurationMinutes != 120 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if !event.ViewDate.Equal(fixedToday) {
		t.Fatalf("'today' should resolve to the clock date, got %s", event.ViewDate)
	}
	if event.IMDBRate == nil || *event.IMDBRate != 8.0 {
		t.Fatalf("denormalized rating lost: %#v", event.IMDBRate)
	}
}

func TestFlowSeriesAutoDuration(t *testing.T) {
	manager, st := newManager(t)
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Fargo", Type: store.TypeSeries, Genre: "Crime"})

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "Fargo")
	handle(t, manager, 1, "10")
	handle(t, manager, 1, "2026-06-01")
	handle(t, manager, 1, "auto")

	event := lastView(t, st, 1)
	if event.DurationMinutes != 45 {
		t.Fatalf("series auto duration should be 45, got %d", event.DurationMinutes)
	}
	if !event.ViewDate.Equal(testsupport.Date(2026, time.June, 1)) {
		t.Fatalf("unexpected date: %s", event.ViewDate)
	}
}

func TestFlowInvalidInputsReprompt(t *testing.T) {
	manager, st := newManager(t)
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Dune", Type: store.TypeFilm, Genre: "Sci-Fi"})

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "Dune")

	for _, bad := range []string{"eleven", "0.5", "10.1", "NaN", "nan"} {
		reply := handle(t, manager, 1, bad)
		if !strings.Contains(reply.Text, "1 to 10") {
			t.Fatalf("rating %q should reprompt, got %q", bad, reply.Text)
		}
	}
	if state, _ := manager.CurrentState(1); state != flow.StateAwaitRatingExisting {
		t.Fatalf("state advanced on invalid rating: %s", state)
	}

	handle(t, manager, 1, "7")
	reply := handle(t, manager, 1, "15-06-2026")
	if !strings.Contains(reply.Text, "YYYY-MM-DD") {
		t.Fatalf("bad date should reprompt, got %q", reply.Text)
	}
	handle(t, manager, 1, "today")

	reply = handle(t, manager, 1, "soon")
	if !strings.Contains(reply.Text, "minutes") {
		t.Fatalf("bad duration should reprompt, got %q", reply.Text)
	}
	done := handle(t, manager, 1, "95")
	if !done.Done {
		t.Fatal("valid duration should finish the flow")
	}
	if got := lastView(t, st, 1).DurationMinutes; got != 95 {
		t.Fatalf("unexpected duration: %d", got)
	}
}

func TestFlowUnknownTitleManualEntry(t *testing.T) {
	manager, st := newManager(t)

	manager.Begin(context.Background(), 1)
	reply := handle(t, manager, 1, "Xyzzy123")
	if !strings.Contains(reply.Text, "genre") {
		t.Fatalf("unmatched title should ask for details, got %q", reply.Text)
	}

	handle(t, manager, 1, "Comedy")
	handle(t, manager, 1, "6")
	handle(t, manager, 1, "today")
	handle(t, manager, 1, "auto")

	entry, err := catalog.NewMatcher(st).FindExact(context.Background(), "Xyzzy123")
	if err != nil {
		t.Fatalf("FindExact: %v", err)
	}
	if entry == nil {
		t.Fatal("manual entry should have been added to the catalog")
	}
	if entry.Type != store.TypeFilm || entry.Certificate != "" || entry.IMDBRate != nil {
		t.Fatalf("manual entry defaults wrong: %+v", entry)
	}

	event := lastView(t, st, 1)
	if event.Genre != "Comedy" || event.DurationMinutes != 120 {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func seedAlienCatalog(t *testing.T, st *store.Store) {
	t.Helper()
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Alien", Type: store.TypeFilm, Genre: "Sci-Fi", IMDBRate: testsupport.FloatPtr(8.5)})
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Aliens", Type: store.TypeFilm, Genre: "Sci-Fi", IMDBRate: testsupport.FloatPtr(8.4)})
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Alien: Romulus", Type: store.TypeFilm, Genre: "Sci-Fi", IMDBRate: testsupport.FloatPtr(7.2)})
}

func TestFlowManualEntryFullDetails(t *testing.T) {
	manager, st := newManager(t)

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "the midnight archive")
	handle(t, manager, 1, "Drama, Series, PG-13")
	handle(t, manager, 1, "7.5")
	handle(t, manager, 1, "2026-05-20")
	handle(t, manager, 1, "auto")

	entry, err := catalog.NewMatcher(st).FindExact(context.Background(), "The Midnight Archive")
	if err != nil {
		t.Fatalf("FindExact: %v", err)
	}
	if entry == nil {
		t.Fatal("manual entry missing from catalog")
	}
	if entry.Name != "The Midnight Archive" {
		t.Fatalf("title not normalized: %q", entry.Name)
	}
	if entry.Type != store.TypeSeries || entry.Certificate != "PG-13" {
		t.Fatalf("details not applied: %+v", entry)
	}

	event := lastView(t, st, 1)
	if event.DurationMinutes != 45 {
		t.Fatalf("series auto duration should be 45, got %d", event.DurationMinutes)
	}
	if event.UserRate != 7.5 {
		t.Fatalf("unexpected rating: %g", event.UserRate)
	}
}

func TestFlowManualEntryRequiresGenre(t *testing.T) {
	manager, _ := newManager(t)

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "Xyzzy123")
	reply := handle(t, manager, 1, "  , Film")
	if !strings.Contains(reply.Text, "genre") {
		t.Fatalf("missing genre should reprompt, got %q", reply.Text)
	}
	if state, _ := manager.CurrentState(1); state != flow.StateAwaitNewDetails {
		t.Fatalf("state advanced without a genre: %s", state)
	}
}

func TestFlowSuggestionMenuAndChoice(t *testing.T) {
	manager, st := newManager(t)
	seedAlienCatalog(t, st)

	manager.Begin(context.Background(), 1)
	// "alie" matches nothing exactly and several names by substring, so a
	// ranked menu appears.
	reply := handle(t, manager, 1, "alie")
	if !strings.Contains(reply.Text, "Similar titles") {
		t.Fatalf("expected a suggestion menu, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "1. Alien (") {
		t.Fatalf("best-rated candidate should rank first, got %q", reply.Text)
	}

	reply = handle(t, manager, 1, "2")
	if !strings.Contains(reply.Text, "Aliens") {
		t.Fatalf("expected the second candidate picked, got %q", reply.Text)
	}
	handle(t, manager, 1, "8")
	handle(t, manager, 1, "today")
	handle(t, manager, 1, "auto")

	event := lastView(t, st, 1)
	if event.Name != "Aliens" {
		t.Fatalf("unexpected event title: %q", event.Name)
	}
}

func TestFlowSuggestionBadChoiceReprompts(t *testing.T) {
	manager, st := newManager(t)
	seedAlienCatalog(t, st)

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "alie")

	for _, bad := range []string{"7", "0", "maybe"} {
		reply := handle(t, manager, 1, bad)
		if !strings.Contains(reply.Text, "option number") {
			t.Fatalf("choice %q should reprompt, got %q", bad, reply.Text)
		}
	}
	if state, _ := manager.CurrentState(1); state != flow.StateAwaitTitle {
		t.Fatalf("bad choice advanced the state: %s", state)
	}
}

func TestFlowNewKeywordAfterSuggestions(t *testing.T) {
	manager, st := newManager(t)
	seedAlienCatalog(t, st)

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "alie")
	reply := handle(t, manager, 1, "NEW")
	if !strings.Contains(reply.Text, "genre") {
		t.Fatalf("'new' should ask for details, got %q", reply.Text)
	}
	if state, _ := manager.CurrentState(1); state != flow.StateAwaitNewDetails {
		t.Fatalf("expected manual entry after 'new', got %s", state)
	}
}

func TestFlowNoMatchGoesStraightToDetails(t *testing.T) {
	manager, st := newManager(t)
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Blade Runner", Type: store.TypeFilm, Genre: "Sci-Fi"})

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "Blade Runner 2049 Director's Cut")
	if state, _ := manager.CurrentState(1); state != flow.StateAwaitNewDetails {
		t.Fatalf("expected manual entry after no match, got %s", state)
	}
}

func TestFlowCancelDiscardsEverything(t *testing.T) {
	manager, st := newManager(t)
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Dune", Type: store.TypeFilm, Genre: "Sci-Fi"})

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "Dune")
	handle(t, manager, 1, "8")

	if !manager.Cancel(1) {
		t.Fatal("Cancel should report an aborted dialogue")
	}
	if manager.Active(1) {
		t.Fatal("session should be gone after cancel")
	}
	if manager.Cancel(1) {
		t.Fatal("second cancel should be a no-op")
	}

	views, err := st.LastViews(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("LastViews: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("cancel must not persist events, got %d", len(views))
	}
}

func TestFlowHandleWithoutSession(t *testing.T) {
	manager, _ := newManager(t)

	_, ok, err := manager.Handle(context.Background(), 1, "hello")
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if ok {
		t.Fatal("no dialogue should be active")
	}
}

func TestFlowEmptyTitleReprompts(t *testing.T) {
	manager, _ := newManager(t)

	manager.Begin(context.Background(), 1)
	reply := handle(t, manager, 1, "   ")
	if !strings.Contains(reply.Text, "title") {
		t.Fatalf("empty title should reprompt, got %q", reply.Text)
	}
	if state, _ := manager.CurrentState(1); state != flow.StateAwaitTitle {
		t.Fatalf("state advanced on empty title: %s", state)
	}
}

func TestFlowUsersAreIsolated(t *testing.T) {
	manager, st := newManager(t)
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Dune", Type: store.TypeFilm, Genre: "Sci-Fi"})

	manager.Begin(context.Background(), 1)
	manager.Begin(context.Background(), 2)
	handle(t, manager, 1, "Dune")

	if state, _ := manager.CurrentState(2); state != flow.StateAwaitTitle {
		t.Fatalf("user 2 affected by user 1: %s", state)
	}
	if state, _ := manager.CurrentState(1); state != flow.StateAwaitRatingExisting {
		t.Fatalf("user 1 did not advance: %s", state)
	}
}

func TestFlowConcurrentHandleAndStateQueries(t *testing.T) {
	manager, st := newManager(t)
	testsupport.SeedEntry(t, st, store.CatalogEntry{Name: "Dune", Type: store.TypeFilm, Genre: "Sci-Fi"})

	manager.Begin(context.Background(), 1)
	handle(t, manager, 1, "Dune")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			// Rejected input keeps the dialogue at the rating prompt.
			if _, ok, err := manager.Handle(context.Background(), 1, "eleven"); err != nil || !ok {
				t.Errorf("Handle: ok=%v err=%v", ok, err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, ok := manager.CurrentState(1); !ok {
				t.Error("CurrentState: dialogue vanished")
			}
		}()
	}
	wg.Wait()

	if state, _ := manager.CurrentState(1); state != flow.StateAwaitRatingExisting {
		t.Fatalf("state changed under concurrent rejected input: %s", state)
	}
}
