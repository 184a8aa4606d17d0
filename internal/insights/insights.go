package insights

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"reelog/internal/store"
)

// DefaultRecommendLimit caps the recommendation list.
const DefaultRecommendLimit = 5

const topGenreCount = 3

// Service computes per-user statistics, recommendations, and progress
// comparisons from the viewing log. All operations are read-only; reading
// twice with no intervening writes yields identical results.
type Service struct {
	store *store.Store
}

// NewService builds an insights service over the provided store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// TypeStat aggregates one media type for a user.
type TypeStat struct {
	Type         string
	Count        int64
	TotalMinutes int64
	AvgRating    *float64
}

// GenreCount pairs a genre tag with its event count. Genre strings are opaque
// at this layer; comma-separated multi-genre tags are not split.
type GenreCount struct {
	Genre string
	Count int64
}

// UserStats is the /stats payload.
type UserStats struct {
	PerType   []TypeStat
	TopGenres []GenreCount
}

// Stats groups the user's viewing log by type and ranks the top five genres
// by event count.
func (s *Service) Stats(ctx context.Context, userID int64) (*UserStats, error) {
	query, args, err := sq.Select("type", "COUNT(*)", "COALESCE(SUM(duration_minutes), 0)", "AVG(user_rate)").
		From("views").
		Where(sq.Eq{"user_id": userID}).
		GroupBy("type").
		OrderBy("COUNT(*) DESC, type ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats query: %w", err)
	}

	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query type stats: %w", err)
	}
	defer rows.Close()

	stats := &UserStats{}
	for rows.Next() {
		var (
			stat TypeStat
			avg  sql.NullFloat64
		)
		if err := rows.Scan(&stat.Type, &stat.Count, &stat.TotalMinutes, &avg); err != nil {
			return nil, fmt.Errorf("scan type stat: %w", err)
		}
		if avg.Valid {
			rounded := round2(avg.Float64)
			stat.AvgRating = &rounded
		}
		stats.PerType = append(stats.PerType, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate type stats: %w", err)
	}

	stats.TopGenres, err = s.genresByCount(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Recommendations returns up to limit catalog entries matching the user's
// favorite genres, excluding anything already logged (case-insensitively by
// title), best-rated first. A user with no derivable favorite genres falls
// back to the highest-rated unseen entries; the empty-genre case must never
// produce an empty IN clause.
func (s *Service) Recommendations(ctx context.Context, userID int64, limit int) ([]store.CatalogEntry, error) {
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	seen, err := s.seenTitles(ctx, userID)
	if err != nil {
		return nil, err
	}

	favorites, err := s.genresByCount(ctx, userID, topGenreCount)
	if err != nil {
		return nil, err
	}

	builder := sq.Select(store.EntryColumns()).
		From("catalog").
		OrderBy("imdb_rate DESC NULLS LAST").
		Limit(uint64(limit))

	if len(seen) > 0 {
		builder = builder.Where(sq.NotEq{"LOWER(name)": seen})
	}
	if len(favorites) > 0 {
		genres := make([]string, 0, len(favorites))
		for _, favorite := range favorites {
			genres = append(genres, favorite.Genre)
		}
		builder = builder.Where(sq.Eq{"genre": genres})
	}
	// With no favorites the builder already is the fallback: top-rated
	// unseen entries, no genre filter.

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recommendation query: %w", err)
	}

	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	entries := make([]store.CatalogEntry, 0, limit)
	for rows.Next() {
		entry, err := store.ScanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recommendations: %w", err)
	}
	return entries, nil
}

func (s *Service) seenTitles(ctx context.Context, userID int64) ([]string, error) {
	query, args, err := sq.Select("DISTINCT LOWER(name)").
		From("views").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen-titles query: %w", err)
	}

	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan seen title: %w", err)
		}
		titles = append(titles, strings.ToLower(title))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seen titles: %w", err)
	}
	return titles, nil
}

func (s *Service) genresByCount(ctx context.Context, userID int64, limit int) ([]GenreCount, error) {
	query, args, err := sq.Select("genre", "COUNT(*) AS cnt").
		From("views").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.NotEq{"genre": ""}).
		GroupBy("genre").
		OrderBy("cnt DESC, genre ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build genre query: %w", err)
	}

	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query genres: %w", err)
	}
	defer rows.Close()

	var genres []GenreCount
	for rows.Next() {
		var genre GenreCount
		if err := rows.Scan(&genre.Genre, &genre.Count); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genres: %w", err)
	}
	return genres, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
