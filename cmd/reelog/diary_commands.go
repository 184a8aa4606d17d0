package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reelog/internal/config"
	"reelog/internal/insights"
	"reelog/internal/store"
)

func addUserFlag(cmd *cobra.Command, userID *int64) {
	cmd.Flags().Int64VarP(userID, "user", "u", 0, "Telegram user id the diary belongs to")
	cmd.MarkFlagRequired("user")
}

func newLastCommand(ctx *commandContext) *cobra.Command {
	var userID int64
	var limit int

	cmd := &cobra.Command{
		Use:   "last",
		Short: "Show a user's most recent viewings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if limit <= 0 {
					limit = cfg.Diary.LastLimit
				}
				views, err := st.LastViews(cmd.Context(), userID, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(views) == 0 {
					fmt.Fprintln(out, "No viewings recorded")
					return nil
				}

				rows := make([][]string, 0, len(views))
				for _, view := range views {
					rows = append(rows, []string{
						view.Name,
						strconv.FormatFloat(view.UserRate, 'f', -1, 64),
						view.Type,
						view.Genre,
						view.ViewDate.Format(store.DateLayout),
						strconv.FormatInt(view.DurationMinutes, 10),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Name", "Rating", "Type", "Genre", "Date", "Minutes"}, rows, 1, 5))
				return nil
			})
		},
	}

	addUserFlag(cmd, &userID)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of events to list (defaults to diary.last_limit)")
	return cmd
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a user's viewing totals by type and genre",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				stats, err := insights.NewService(st).Stats(cmd.Context(), userID)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(stats.PerType) == 0 {
					fmt.Fprintln(out, "No viewings recorded")
					return nil
				}

				typeRows := make([][]string, 0, len(stats.PerType))
				for _, row := range stats.PerType {
					typeRows = append(typeRows, []string{
						row.Type,
						strconv.FormatInt(row.Count, 10),
						strconv.FormatInt(row.TotalMinutes, 10),
						formatOptional2f(row.AvgRating),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Type", "Count", "Minutes", "Avg rating"}, typeRows, 1, 2, 3))

				if len(stats.TopGenres) > 0 {
					genreRows := make([][]string, 0, len(stats.TopGenres))
					for _, genre := range stats.TopGenres {
						genreRows = append(genreRows, []string{genre.Genre, strconv.FormatInt(genre.Count, 10)})
					}
					fmt.Fprintln(out, renderTable([]string{"Genre", "Count"}, genreRows, 1))
				}
				return nil
			})
		},
	}

	addUserFlag(cmd, &userID)
	return cmd
}

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var userID int64
	var limit int

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend unseen titles for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if limit <= 0 {
					limit = cfg.Diary.RecommendLimit
				}
				recs, err := insights.NewService(st).Recommendations(cmd.Context(), userID, limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(recs) == 0 {
					fmt.Fprintln(out, "Nothing to recommend; the catalog may be empty")
					return nil
				}
				fmt.Fprintln(out, renderEntries(recs))
				return nil
			})
		},
	}

	addUserFlag(cmd, &userID)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of titles (defaults to diary.recommend_limit)")
	return cmd
}

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Compare a user's recent activity with the previous period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				today := time.Now().UTC().Truncate(24 * time.Hour)
				report, err := insights.NewService(st).Progress(cmd.Context(), userID, today, cfg.Diary.ProgressWindowDays)
				if err != nil {
					return err
				}

				rows := [][]string{
					progressRow("Current", report.Current),
					progressRow("Previous", report.Previous),
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Period", "From", "To", "Viewings", "Avg rating", "Minutes"}, rows, 3, 4, 5))
				return nil
			})
		},
	}

	addUserFlag(cmd, &userID)
	return cmd
}

func progressRow(label string, period insights.PeriodStats) []string {
	return []string{
		label,
		period.Start.Format(store.DateLayout),
		period.End.Format(store.DateLayout),
		strconv.FormatInt(period.Count, 10),
		formatOptional2f(period.AvgRating),
		strconv.FormatInt(period.TotalMinutes, 10),
	}
}

func formatOptional2f(value *float64) string {
	if value == nil {
		return "-"
	}
	return strconv.FormatFloat(*value, 'f', 2, 64)
}
