package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show what a running server has organized since it started",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			stats, err := client.Stats(cmd.Context())
			if err != nil {
				return wrapClientError(err, ctx.serverURL())
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, stats)
			}

			fmt.Fprintf(out, "Up %s, %d active session(s), %d sweep(s)\n",
				(time.Duration(stats.UptimeSeconds) * time.Second).String(), stats.ActiveSessions, stats.Sweeps)
			fmt.Fprintf(out, "%d moved, %d skipped, %d failed, %d folder(s) created\n",
				stats.Moved, stats.Skipped, stats.Failed, stats.FoldersCreated)
			if stats.Resources != nil {
				fmt.Fprintf(out, "Memory %.1f MiB, %d goroutines\n",
					float64(stats.Resources.MemoryUsage)/(1<<20), stats.Resources.Goroutines)
			}

			if len(stats.Categories) > 0 {
				rows := make([][]string, 0, len(stats.Categories))
				for _, c := range stats.Categories {
					rows = append(rows, []string{
						c.Folder,
						strconv.FormatInt(c.Moved, 10),
						strconv.FormatInt(c.Skipped, 10),
						strconv.FormatInt(c.Failed, 10),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]tableColumn{col("Folder"), rcol("Moved"), rcol("Skipped"), rcol("Failed")},
					rows,
				))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON")
	return cmd
}
