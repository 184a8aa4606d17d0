package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertView appends one viewing event. Events are never mutated or deleted.
func (s *Store) InsertView(ctx context.Context, event ViewingEvent) (*ViewingEvent, error) {
	if event.UserID == 0 {
		return nil, errors.New("viewing event requires a user id")
	}
	if event.ViewDate.IsZero() {
		return nil, errors.New("viewing event requires a view date")
	}
	if event.DurationMinutes < 0 {
		return nil, errors.New("viewing event duration must be non-negative")
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO views (user_id, name, type, genre, certificate, imdb_rate, user_rate, view_date, duration_minutes)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.UserID,
		event.Name,
		event.Type,
		event.Genre,
		event.Certificate,
		nullableFloat(event.IMDBRate),
		event.UserRate,
		event.ViewDate.Format(DateLayout),
		event.DurationMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert viewing event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	event.ID = id
	return &event, nil
}

// LastViews returns the user's most recent events, newest first by insertion
// order.
func (s *Store) LastViews(ctx context.Context, userID int64, limit int) ([]ViewingEvent, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, user_id, name, type, genre, certificate, imdb_rate, user_rate, view_date, duration_minutes
         FROM views
         WHERE user_id = ?
         ORDER BY id DESC
         LIMIT ?`,
		userID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query last views: %w", err)
	}
	defer rows.Close()

	events := make([]ViewingEvent, 0, limit)
	for rows.Next() {
		event, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan viewing event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate last views: %w", err)
	}
	return events, nil
}

func scanView(scanner interface{ Scan(dest ...any) error }) (*ViewingEvent, error) {
	var (
		event   ViewingEvent
		rate    sql.NullFloat64
		dateRaw string
	)
	if err := scanner.Scan(
		&event.ID,
		&event.UserID,
		&event.Name,
		&event.Type,
		&event.Genre,
		&event.Certificate,
		&rate,
		&event.UserRate,
		&dateRaw,
		&event.DurationMinutes,
	); err != nil {
		return nil, err
	}
	event.IMDBRate = floatPtr(rate)

	parsed, err := time.Parse(DateLayout, dateRaw)
	if err != nil {
		return nil, fmt.Errorf("parse view date %q: %w", dateRaw, err)
	}
	event.ViewDate = parsed
	return &event, nil
}
