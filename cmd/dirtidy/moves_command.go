package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newMovesCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "moves",
		Short: "Show the most recent moves journaled by a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			entries, err := client.Moves(cmd.Context(), limit)
			if err != nil {
				return wrapClientError(err, ctx.serverURL())
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No moves recorded")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				dest := ""
				if e.Destination != "" {
					dest = filepath.Base(filepath.Dir(e.Destination))
				}
				rows = append(rows, []string{
					e.Time.Local().Format("2006-01-02 15:04:05"),
					string(e.Outcome),
					filepath.Base(e.Source),
					dest,
					e.Reason,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]tableColumn{col("Time"), col("Outcome"), col("File"), col("Folder"), col("Reason")},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	return cmd
}
