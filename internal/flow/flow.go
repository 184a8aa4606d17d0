package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"reelog/internal/catalog"
	"reelog/internal/logging"
	"reelog/internal/services"
	"reelog/internal/store"
)

// State identifies one step of the guided logging dialogue.
type State int

const (
	// StateAwaitTitle consumes a free-text title, a suggestion number, or
	// the "new" keyword once suggestions have been shown.
	StateAwaitTitle State = iota
	// StateAwaitNewDetails consumes "genre[, type[, certificate]]" for a
	// title the catalog does not know.
	StateAwaitNewDetails
	// StateAwaitRatingExisting consumes a rating for a matched entry.
	StateAwaitRatingExisting
	// StateAwaitRatingNew consumes a rating for a freshly created entry.
	StateAwaitRatingNew
	// StateAwaitDate consumes "today" or a YYYY-MM-DD date.
	StateAwaitDate
	// StateAwaitDuration consumes "auto" or a minute count, then persists
	// the event and ends the flow.
	StateAwaitDuration
)

func (s State) String() string {
	switch s {
	case StateAwaitTitle:
		return "await-title"
	case StateAwaitNewDetails:
		return "await-new-details"
	case StateAwaitRatingExisting:
		return "await-rating-existing"
	case StateAwaitRatingNew:
		return "await-rating-new"
	case StateAwaitDate:
		return "await-date"
	case StateAwaitDuration:
		return "await-duration"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Reply is what the dialogue wants sent back to the user after a step.
type Reply struct {
	Text string
	// Done marks the flow finished, by persisting an event or by cancel.
	Done bool
	// RemoveKeyboard asks the transport to hide the command keyboard while
	// the dialogue runs.
	RemoveKeyboard bool
}

// session is the per-user in-progress flow. Fields accumulate as states
// advance; draft carries the denormalized catalog fields that end up on the
// persisted event.
type session struct {
	mu sync.Mutex

	state       State
	title       string
	suggestions []store.CatalogEntry
	draft       *store.CatalogEntry
	rating      float64
	viewDate    time.Time
}

// Options tune a Manager. Zero values fall back to package defaults.
type Options struct {
	FuzzyLimit        int
	AutoFilmMinutes   int64
	AutoSeriesMinutes int64
	Clock             func() time.Time
	Logger            *slog.Logger
}

// Default auto durations when the user answers "auto".
const (
	DefaultAutoFilmMinutes   = 120
	DefaultAutoSeriesMinutes = 45
)

// Manager owns every user's dialogue. One flow per user at a time; a second
// /add restarts from the title prompt. Sessions are guarded so the guarantee
// holds even when updates for one user arrive concurrently.
type Manager struct {
	store   *store.Store
	matcher *catalog.Matcher

	fuzzyLimit int
	autoFilm   int64
	autoSeries int64
	now        func() time.Time
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*session
}

// NewManager builds a dialogue manager over the store and matcher.
func NewManager(st *store.Store, matcher *catalog.Matcher, opts Options) *Manager {
	if opts.FuzzyLimit <= 0 {
		opts.FuzzyLimit = catalog.DefaultFuzzyLimit
	}
	if opts.AutoFilmMinutes <= 0 {
		opts.AutoFilmMinutes = DefaultAutoFilmMinutes
	}
	if opts.AutoSeriesMinutes <= 0 {
		opts.AutoSeriesMinutes = DefaultAutoSeriesMinutes
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Manager{
		store:      st,
		matcher:    matcher,
		fuzzyLimit: opts.FuzzyLimit,
		autoFilm:   opts.AutoFilmMinutes,
		autoSeries: opts.AutoSeriesMinutes,
		now:        opts.Clock,
		logger:     opts.Logger.With(logging.String(logging.FieldComponent, "flow")),
		sessions:   make(map[int64]*session),
	}
}

// Begin starts (or restarts) the logging dialogue for a user.
func (m *Manager) Begin(ctx context.Context, userID int64) Reply {
	m.mu.Lock()
	m.sessions[userID] = &session{state: StateAwaitTitle}
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "flow started", logging.Int64(logging.FieldUserID, userID))
	return Reply{Text: "Enter the film or series title:", RemoveKeyboard: true}
}

// Active reports whether the user has a dialogue in progress.
func (m *Manager) Active(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[userID]
	return ok
}

// CurrentState returns the user's dialogue state, if any. The session lock
// is taken after the map lock is released, the same order Handle uses.
func (m *Manager) CurrentState(userID int64) (State, bool) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return 0, false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, true
}

// Cancel aborts the user's dialogue without persisting anything. It reports
// whether a dialogue was actually in progress.
func (m *Manager) Cancel(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[userID]; !ok {
		return false
	}
	delete(m.sessions, userID)
	return true
}

// Handle feeds one user message into the dialogue and returns the reply.
// With no dialogue in progress it returns ok=false and the caller decides
// what to do with the message.
func (m *Manager) Handle(ctx context.Context, userID int64, text string) (Reply, bool, error) {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	m.mu.Unlock()
	if !ok {
		return Reply{}, false, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	ctx = services.WithState(services.WithUserID(ctx, userID), sess.state.String())

	reply, err := m.step(ctx, userID, sess, strings.TrimSpace(text))
	if err != nil {
		// Malformed input never kills the dialogue; the same state just
		// prompts again. Anything else does.
		if services.IsRecoverable(err) {
			m.logger.DebugContext(ctx, "input rejected",
				logging.Int64(logging.FieldUserID, userID),
				logging.String(logging.FieldState, sess.state.String()),
				logging.Error(err))
			return reply, true, nil
		}
		m.endLocked(userID)
		return Reply{}, true, err
	}
	if reply.Done {
		m.endLocked(userID)
	}
	return reply, true, nil
}

func (m *Manager) endLocked(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

func (m *Manager) step(ctx context.Context, userID int64, sess *session, text string) (Reply, error) {
	switch sess.state {
	case StateAwaitTitle:
		return m.stepTitle(ctx, sess, text)
	case StateAwaitNewDetails:
		return m.stepNewDetails(ctx, sess, text)
	case StateAwaitRatingExisting, StateAwaitRatingNew:
		return m.stepRating(sess, text)
	case StateAwaitDate:
		return m.stepDate(sess, text)
	case StateAwaitDuration:
		return m.stepDuration(ctx, userID, sess, text)
	default:
		return Reply{}, services.Wrap(services.ErrTransient, "flow", "step",
			fmt.Sprintf("unknown dialogue state %d", int(sess.state)), nil)
	}
}

func (m *Manager) stepTitle(ctx context.Context, sess *session, text string) (Reply, error) {
	if len(sess.suggestions) > 0 {
		return m.stepSuggestionChoice(sess, text)
	}

	if text == "" {
		return Reply{Text: "The title cannot be empty. Enter the film or series title:"},
			services.Wrap(services.ErrValidation, "flow", "title", "empty title", nil)
	}
	sess.title = text

	exact, err := m.matcher.FindExact(ctx, text)
	if err != nil {
		return Reply{}, err
	}
	if exact != nil {
		sess.draft = exact
		sess.state = StateAwaitRatingExisting
		return Reply{Text: fmt.Sprintf(
			"Found it in the catalog: %s (%s) [IMDB %s].\nRate it from 1 to 10:",
			exact.Name, orUnknown(exact.Type), formatRate(exact.IMDBRate))}, nil
	}

	suggestions, err := m.matcher.FindFuzzy(ctx, text, m.fuzzyLimit)
	if err != nil {
		return Reply{}, err
	}
	if len(suggestions) > 0 {
		sess.suggestions = suggestions
		var b strings.Builder
		b.WriteString("No exact match. Similar titles:\n")
		for i, entry := range suggestions {
			fmt.Fprintf(&b, "%d. %s (%s) IMDB %s\n", i+1, entry.Name, orUnknown(entry.Type), formatRate(entry.IMDBRate))
		}
		b.WriteString("If none of these fit, reply 'new'.")
		return Reply{Text: b.String()}, nil
	}

	sess.state = StateAwaitNewDetails
	return Reply{Text: newDetailsPrompt("The catalog has no such title. ")}, nil
}

func (m *Manager) stepSuggestionChoice(sess *session, text string) (Reply, error) {
	if strings.EqualFold(text, "new") {
		sess.suggestions = nil
		sess.state = StateAwaitNewDetails
		return Reply{Text: newDetailsPrompt("")}, nil
	}

	index, err := parseChoice(text, len(sess.suggestions))
	if err != nil {
		return Reply{Text: "Could not read that. Reply with an option number or 'new'."}, err
	}

	chosen := sess.suggestions[index]
	sess.draft = &chosen
	sess.suggestions = nil
	sess.state = StateAwaitRatingExisting
	return Reply{Text: fmt.Sprintf("Picked: %s (%s). Rate it from 1 to 10:",
		chosen.Name, orUnknown(chosen.Type))}, nil
}

func (m *Manager) stepNewDetails(ctx context.Context, sess *session, text string) (Reply, error) {
	details, err := parseDetails(text)
	if err != nil {
		return Reply{Text: "Send at least the genre, fields separated by commas."}, err
	}

	entry := store.CatalogEntry{
		Name:        catalog.NormalizeTitle(sess.title),
		Type:        details.mediaType,
		Genre:       details.genre,
		Certificate: details.certificate,
	}
	created, err := m.store.InsertEntry(ctx, entry)
	if err != nil {
		return Reply{}, err
	}

	sess.draft = created
	sess.state = StateAwaitRatingNew
	return Reply{Text: "Got it. Now rate it from 1 to 10:"}, nil
}

func (m *Manager) stepRating(sess *session, text string) (Reply, error) {
	rating, err := parseRating(text)
	if err != nil {
		return Reply{Text: "The rating must be a number from 1 to 10."}, err
	}

	sess.rating = rating
	sess.state = StateAwaitDate
	return Reply{Text: "When did you watch it? Send a YYYY-MM-DD date or 'today'."}, nil
}

func (m *Manager) stepDate(sess *session, text string) (Reply, error) {
	viewDate, err := parseDate(text, m.now)
	if err != nil {
		return Reply{Text: "The date format is YYYY-MM-DD, or 'today'."}, err
	}

	sess.viewDate = viewDate
	sess.state = StateAwaitDuration
	return Reply{Text: "How many minutes did it take? 120 for a typical film, a total for a series, or 'auto'."}, nil
}

func (m *Manager) stepDuration(ctx context.Context, userID int64, sess *session, text string) (Reply, error) {
	minutes, err := parseDuration(text, sess.draft.IsSeries(), m.autoFilm, m.autoSeries)
	if err != nil {
		return Reply{Text: "Send a number of minutes, or 'auto'."}, err
	}

	event := store.ViewingEvent{
		UserID:          userID,
		Name:            sess.draft.Name,
		Type:            sess.draft.Type,
		Genre:           sess.draft.Genre,
		Certificate:     sess.draft.Certificate,
		IMDBRate:        sess.draft.IMDBRate,
		UserRate:        sess.rating,
		ViewDate:        sess.viewDate,
		DurationMinutes: minutes,
	}
	if _, err := m.store.InsertView(ctx, event); err != nil {
		return Reply{}, err
	}

	m.logger.InfoContext(ctx, "viewing event recorded",
		logging.Int64(logging.FieldUserID, userID),
		logging.String("title", event.Name),
		logging.Int64("duration_minutes", event.DurationMinutes))
	return Reply{Text: "Added to your diary. What next?", Done: true}, nil
}

func newDetailsPrompt(prefix string) string {
	return prefix + "Send the genre, type (Film/Series) and age certificate separated by commas, for example: Drama, Film, PG-13"
}

func orUnknown(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

func formatRate(rate *float64) string {
	if rate == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *rate)
}
