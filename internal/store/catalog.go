package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const entryColumns = "id, name, type, genre, certificate, imdb_rate, votes, episodes"

// InsertEntry adds a single catalog entry and returns it with its assigned ID.
func (s *Store) InsertEntry(ctx context.Context, entry CatalogEntry) (*CatalogEntry, error) {
	if strings.TrimSpace(entry.Name) == "" {
		return nil, errors.New("catalog entry requires a name")
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO catalog (name, type, genre, certificate, imdb_rate, votes, episodes)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.Name,
		entry.Type,
		entry.Genre,
		entry.Certificate,
		nullableFloat(entry.IMDBRate),
		nullableInt(entry.Votes),
		nullableInt(entry.Episodes),
	)
	if err != nil {
		return nil, fmt.Errorf("insert catalog entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetEntryByID(ctx, id)
}

// BulkInsertEntries inserts seed rows inside one transaction.
func (s *Store) BulkInsertEntries(ctx context.Context, entries []CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(
		ctx,
		`INSERT INTO catalog (name, type, genre, certificate, imdb_rate, votes, episodes)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare seed insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		if _, err := stmt.ExecContext(
			ctx,
			entry.Name,
			entry.Type,
			entry.Genre,
			entry.Certificate,
			nullableFloat(entry.IMDBRate),
			nullableInt(entry.Votes),
			nullableInt(entry.Episodes),
		); err != nil {
			return fmt.Errorf("insert seed row %q: %w", entry.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

// CountEntries returns the number of catalog rows.
func (s *Store) CountEntries(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalog").Scan(&count); err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return count, nil
}

// GetEntryByID fetches a single catalog entry; nil when absent.
func (s *Store) GetEntryByID(ctx context.Context, id int64) (*CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM catalog WHERE id = ?", id)
	entry, err := ScanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	return entry, nil
}

// EntryColumns returns the canonical catalog column list for read-side queries.
func EntryColumns() string {
	return entryColumns
}

// ScanEntry reads one catalog row from a row scanner.
func ScanEntry(scanner interface{ Scan(dest ...any) error }) (*CatalogEntry, error) {
	var (
		entry    CatalogEntry
		rate     sql.NullFloat64
		votes    sql.NullInt64
		episodes sql.NullInt64
	)
	if err := scanner.Scan(
		&entry.ID,
		&entry.Name,
		&entry.Type,
		&entry.Genre,
		&entry.Certificate,
		&rate,
		&votes,
		&episodes,
	); err != nil {
		return nil, err
	}
	entry.IMDBRate = floatPtr(rate)
	entry.Votes = intPtr(votes)
	entry.Episodes = intPtr(episodes)
	return &entry, nil
}
