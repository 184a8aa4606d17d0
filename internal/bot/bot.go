package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelog/internal/catalog"
	"reelog/internal/config"
	"reelog/internal/flow"
	"reelog/internal/insights"
	"reelog/internal/logging"
	"reelog/internal/services"
	"reelog/internal/store"
	"reelog/internal/telegram"
)

// Transport is the Bot API surface the dispatcher needs. *telegram.Client
// satisfies it; tests substitute a fake.
type Transport interface {
	GetUpdates(ctx context.Context, offset int64) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string, markup any) error
}

// pollRetryDelay spaces out getUpdates retries after a transport failure.
const pollRetryDelay = 3 * time.Second

// mainKeyboard mirrors the command surface so users rarely have to type.
var mainKeyboard = telegram.ReplyKeyboardMarkup{
	Keyboard: [][]string{
		{"/add", "/last"},
		{"/stats", "/recommend"},
		{"/progress", "/help"},
	},
	ResizeKeyboard: true,
}

// Bot routes incoming messages to commands and the logging dialogue, and
// renders replies. One instance serves every user.
type Bot struct {
	transport Transport
	store     *store.Store
	insights  *insights.Service
	flows     *flow.Manager
	logger    *slog.Logger

	lastLimit      int
	recommendLimit int
	windowDays     int
}

// New wires the dispatcher from its collaborators.
func New(cfg *config.Config, transport Transport, st *store.Store, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = logging.NewNop()
	}
	matcher := catalog.NewMatcher(st)
	return &Bot{
		transport: transport,
		store:     st,
		insights:  insights.NewService(st),
		flows: flow.NewManager(st, matcher, flow.Options{
			FuzzyLimit:        cfg.Catalog.FuzzyLimit,
			AutoFilmMinutes:   int64(cfg.Diary.AutoFilmMinutes),
			AutoSeriesMinutes: int64(cfg.Diary.AutoSeriesMinutes),
			Logger:            logger,
		}),
		logger:         logging.NewComponentLogger(logger, "bot"),
		lastLimit:      cfg.Diary.LastLimit,
		recommendLimit: cfg.Diary.RecommendLimit,
		windowDays:     cfg.Diary.ProgressWindowDays,
	}
}

// Run long-polls for updates until the context ends. Transport failures are
// logged and retried; handler failures never stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := b.transport.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.WarnContext(ctx, "poll failed", logging.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pollRetryDelay):
			}
			continue
		}
		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			b.handleUpdate(ctx, update)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update telegram.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot || strings.TrimSpace(msg.Text) == "" {
		return
	}

	requestID := uuid.NewString()
	ctx = services.WithRequestID(ctx, requestID)
	ctx = services.WithUserID(ctx, msg.From.ID)
	ctx = services.WithChatID(ctx, msg.Chat.ID)

	fields := []logging.Attr{
		logging.Int64(logging.FieldUserID, msg.From.ID),
		logging.String(logging.FieldCorrelationID, requestID),
	}
	b.logger.DebugContext(ctx, "update received", logging.Args(fields...)...)

	if err := b.HandleMessage(ctx, msg.From.ID, msg.Chat.ID, msg.Text); err != nil {
		b.logger.ErrorContext(ctx, "message handling failed",
			logging.Args(append(fields, logging.Error(err))...)...)
	}
}

// HandleMessage processes one user message to completion: a command, a
// dialogue step, or a nudge toward the menu.
func (b *Bot) HandleMessage(ctx context.Context, userID, chatID int64, text string) error {
	text = strings.TrimSpace(text)

	if command, ok := parseCommand(text); ok {
		return b.handleCommand(ctx, userID, chatID, command)
	}

	reply, active, err := b.flows.Handle(ctx, userID, text)
	if err != nil {
		b.send(ctx, chatID, "Something went wrong, the dialogue was aborted. Try /add again.", mainKeyboard)
		return err
	}
	if active {
		return b.sendFlowReply(ctx, chatID, reply)
	}

	return b.send(ctx, chatID, "Use the command menu.", mainKeyboard)
}

func (b *Bot) handleCommand(ctx context.Context, userID, chatID int64, command string) error {
	// Any command while a dialogue is open abandons it first, so the
	// dialogue never swallows commands.
	if command != "cancel" && b.flows.Cancel(userID) {
		b.logger.InfoContext(ctx, "dialogue replaced by command",
			logging.Int64(logging.FieldUserID, userID),
			logging.String("command", command))
	}

	switch command {
	case "start":
		return b.send(ctx, chatID, greeting, mainKeyboard)
	case "help":
		return b.send(ctx, chatID, helpText, mainKeyboard)
	case "add":
		reply := b.flows.Begin(ctx, userID)
		return b.sendFlowReply(ctx, chatID, reply)
	case "last":
		return b.commandLast(ctx, userID, chatID)
	case "stats":
		return b.commandStats(ctx, userID, chatID)
	case "recommend":
		return b.commandRecommend(ctx, userID, chatID)
	case "progress":
		return b.commandProgress(ctx, userID, chatID)
	case "cancel":
		if b.flows.Cancel(userID) {
			return b.send(ctx, chatID, "Cancelled.", mainKeyboard)
		}
		return b.send(ctx, chatID, "Nothing to cancel.", mainKeyboard)
	default:
		return b.send(ctx, chatID, "Unknown command. "+helpText, mainKeyboard)
	}
}

func (b *Bot) commandLast(ctx context.Context, userID, chatID int64) error {
	views, err := b.store.LastViews(ctx, userID, b.lastLimit)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		return b.send(ctx, chatID, "No viewings yet. Use /add.", mainKeyboard)
	}
	return b.send(ctx, chatID, renderLast(views), mainKeyboard)
}

func (b *Bot) commandStats(ctx context.Context, userID, chatID int64) error {
	stats, err := b.insights.Stats(ctx, userID)
	if err != nil {
		return err
	}
	if len(stats.PerType) == 0 {
		return b.send(ctx, chatID, "No data yet. Log viewings with /add.", mainKeyboard)
	}
	return b.send(ctx, chatID, renderStats(stats), mainKeyboard)
}

func (b *Bot) commandRecommend(ctx context.Context, userID, chatID int64) error {
	recs, err := b.insights.Recommendations(ctx, userID, b.recommendLimit)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return b.send(ctx, chatID, "I need more catalog data first. Log viewings with /add.", mainKeyboard)
	}
	return b.send(ctx, chatID, renderRecommendations(recs), mainKeyboard)
}

func (b *Bot) commandProgress(ctx context.Context, userID, chatID int64) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	report, err := b.insights.Progress(ctx, userID, today, b.windowDays)
	if err != nil {
		return err
	}
	return b.send(ctx, chatID, renderProgress(report, b.windowDays), mainKeyboard)
}

func (b *Bot) sendFlowReply(ctx context.Context, chatID int64, reply flow.Reply) error {
	var markup any
	switch {
	case reply.Done:
		markup = mainKeyboard
	case reply.RemoveKeyboard:
		markup = telegram.ReplyKeyboardRemove{RemoveKeyboard: true}
	}
	return b.send(ctx, chatID, reply.Text, markup)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, markup any) error {
	if err := b.transport.SendMessage(ctx, chatID, text, markup); err != nil {
		return services.Wrap(services.ErrTransient, "bot", "send", "deliver reply", err)
	}
	return nil
}

// parseCommand extracts a bare command name from "/name" or "/name@bot".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	command := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	if command == "" {
		return "", false
	}
	return strings.ToLower(command), true
}
