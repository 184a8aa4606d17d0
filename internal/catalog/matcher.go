package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"reelog/internal/store"
)

// DefaultFuzzyLimit caps the shortlist shown when no exact match exists.
const DefaultFuzzyLimit = 5

// Matcher resolves free-text titles against the catalog. Read-only; no side
// effects.
type Matcher struct {
	store *store.Store
}

// NewMatcher builds a matcher over the provided store.
func NewMatcher(st *store.Store) *Matcher {
	return &Matcher{store: st}
}

// FindExact resolves a title to a single catalog entry. It tries a
// case-insensitive equality match first, then falls back to a
// case-insensitive substring match. The fallback only claims a result when
// exactly one entry contains the title; with several candidates the caller
// is expected to disambiguate via FindFuzzy. Returns nil when nothing
// matches.
func (m *Matcher) FindExact(ctx context.Context, title string) (*store.CatalogEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	db := m.store.DB()
	row := db.QueryRowContext(
		ctx,
		"SELECT "+store.EntryColumns()+" FROM catalog WHERE name = ? COLLATE NOCASE LIMIT 1",
		title,
	)
	entry, err := store.ScanEntry(row)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("exact title lookup: %w", err)
	}

	rows, err := db.QueryContext(
		ctx,
		`SELECT `+store.EntryColumns()+` FROM catalog
         WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE
         ORDER BY imdb_rate DESC NULLS LAST
         LIMIT 2`,
		substringPattern(title),
	)
	if err != nil {
		return nil, fmt.Errorf("substring title lookup: %w", err)
	}
	defer rows.Close()

	var candidates []store.CatalogEntry
	for rows.Next() {
		candidate, err := store.ScanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan substring candidate: %w", err)
		}
		candidates = append(candidates, *candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate substring candidates: %w", err)
	}
	if len(candidates) == 1 {
		return &candidates[0], nil
	}
	return nil, nil
}

// FindFuzzy returns up to limit catalog entries whose name contains the title,
// case-insensitively, best-rated first with unrated entries last.
func (m *Matcher) FindFuzzy(ctx context.Context, title string, limit int) ([]store.CatalogEntry, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultFuzzyLimit
	}

	rows, err := m.store.DB().QueryContext(
		ctx,
		`SELECT `+store.EntryColumns()+` FROM catalog
         WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE
         ORDER BY imdb_rate DESC NULLS LAST
         LIMIT ?`,
		substringPattern(title),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fuzzy title lookup: %w", err)
	}
	defer rows.Close()

	entries := make([]store.CatalogEntry, 0, limit)
	for rows.Next() {
		entry, err := store.ScanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fuzzy candidate: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fuzzy candidates: %w", err)
	}
	return entries, nil
}

func substringPattern(title string) string {
	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(title)
	return "%" + escaped + "%"
}
