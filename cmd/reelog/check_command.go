package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelog/internal/preflight"
	"reelog/internal/telegram"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var skipTelegram bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the daemon's startup checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var identity preflight.Identity
			if !skipTelegram {
				client, err := telegram.NewClient(cfg)
				if err != nil {
					return err
				}
				identity = client
			}

			results := preflight.RunAll(cmd.Context(), cfg, identity)
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, result := range results {
				status := "ok"
				if !result.Passed {
					status = "FAIL"
					failed++
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Check", "Status", "Detail"}, rows))

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipTelegram, "offline", false, "Skip the Telegram API reachability check")
	return cmd
}
