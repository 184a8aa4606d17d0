package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reelog/internal/catalog"
	"reelog/internal/config"
	"reelog/internal/store"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the catalog from the seed file",
		Long:  "Imports the tabular seed file into the catalog. Runs only when the catalog is empty.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				path := strings.TrimSpace(file)
				if path == "" {
					path = cfg.Catalog.SeedPath
				}

				count, err := catalog.Seed(cmd.Context(), st, path)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if count == 0 {
					total, err := st.CountEntries(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Nothing imported; catalog holds %d entries\n", total)
					return nil
				}
				fmt.Fprintf(out, "Imported %d catalog entries from %s\n", count, path)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed file path (defaults to catalog.seed_path)")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search TITLE",
		Short: "Look a title up in the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				title := strings.Join(args, " ")
				matcher := catalog.NewMatcher(st)
				out := cmd.OutOrStdout()

				exact, err := matcher.FindExact(cmd.Context(), title)
				if err != nil {
					return err
				}
				if exact != nil {
					fmt.Fprintln(out, "Exact match:")
					fmt.Fprintln(out, renderEntries([]store.CatalogEntry{*exact}))
					return nil
				}

				candidates, err := matcher.FindFuzzy(cmd.Context(), title, limit)
				if err != nil {
					return err
				}
				if len(candidates) == 0 {
					fmt.Fprintf(out, "No catalog entry matches %q\n", title)
					return nil
				}
				fmt.Fprintln(out, "Similar titles:")
				fmt.Fprintln(out, renderEntries(candidates))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", catalog.DefaultFuzzyLimit, "Maximum candidates to list")
	return cmd
}

func renderEntries(entries []store.CatalogEntry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Name,
			entry.Type,
			entry.Genre,
			entry.Certificate,
			formatOptionalFloat(entry.IMDBRate),
			formatOptionalInt(entry.Votes),
		})
	}
	return renderTable([]string{"Name", "Type", "Genre", "Certificate", "IMDB", "Votes"}, rows, 4, 5)
}

func formatOptionalFloat(value *float64) string {
	if value == nil {
		return "-"
	}
	return strconv.FormatFloat(*value, 'f', 1, 64)
}

func formatOptionalInt(value *int64) string {
	if value == nil {
		return "-"
	}
	return strconv.FormatInt(*value, 10)
}
