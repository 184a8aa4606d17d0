package insights

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"reelog/internal/store"
)

// DefaultWindowDays is the span of each progress comparison window.
const DefaultWindowDays = 30

// PeriodStats aggregates one comparison window. AvgRating is nil when the
// window holds no events.
type PeriodStats struct {
	Start        time.Time
	End          time.Time
	Count        int64
	AvgRating    *float64
	TotalMinutes int64
}

// ProgressReport compares the window ending today against the one immediately
// preceding it.
type ProgressReport struct {
	Current  PeriodStats
	Previous PeriodStats
}

// Progress computes two contiguous, non-overlapping windows of windowDays
// calendar days each, both ends inclusive: the current window ends at today,
// and the previous window ends the day before the current one starts. Dates
// are naive; no timezone handling.
func (s *Service) Progress(ctx context.Context, userID int64, today time.Time, windowDays int) (*ProgressReport, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	currentStart := today.AddDate(0, 0, -(windowDays - 1))
	previousEnd := currentStart.AddDate(0, 0, -1)
	previousStart := previousEnd.AddDate(0, 0, -(windowDays - 1))

	current, err := s.periodStats(ctx, userID, currentStart, today)
	if err != nil {
		return nil, err
	}
	previous, err := s.periodStats(ctx, userID, previousStart, previousEnd)
	if err != nil {
		return nil, err
	}

	return &ProgressReport{Current: *current, Previous: *previous}, nil
}

func (s *Service) periodStats(ctx context.Context, userID int64, start, end time.Time) (*PeriodStats, error) {
	query, args, err := sq.Select("COUNT(*)", "AVG(user_rate)", "COALESCE(SUM(duration_minutes), 0)").
		From("views").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"view_date": start.Format(store.DateLayout)}).
		Where(sq.LtOrEq{"view_date": end.Format(store.DateLayout)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build period query: %w", err)
	}

	var (
		stats = PeriodStats{Start: start, End: end}
		avg   sql.NullFloat64
	)
	row := s.store.DB().QueryRowContext(ctx, query, args...)
	if err := row.Scan(&stats.Count, &avg, &stats.TotalMinutes); err != nil {
		return nil, fmt.Errorf("scan period stats: %w", err)
	}
	if avg.Valid && stats.Count > 0 {
		rounded := round2(avg.Float64)
		stats.AvgRating = &rounded
	}
	return &stats, nil
}
