package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajkula/dirtidy/domain/model"
)

func newSweepCommand(ctx *commandContext) *cobra.Command {
	var categories string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "sweep DIR",
		Short: "Sort the files already in DIR once and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := selectionFlag(categories)
			if err != nil {
				return err
			}

			app, err := newLocalApp(ctx)
			if err != nil {
				return err
			}
			defer app.close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			report, err := app.organizer.Sweep(runCtx, args[0], sel)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report, verbose)
			return nil
		},
	}

	cmd.Flags().StringVarP(&categories, "categories", "c", "todos", "Category selectors such as 4,6,3 or todos")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List every file, not only the summary")
	return cmd
}

// newLocalApp wires an in-process organizer; logs go to stderr so they do
// not interleave with command output
func newLocalApp(ctx *commandContext) (*organizerApp, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	local := *cfg
	if strings.EqualFold(local.Logging.Output, "stdout") {
		local.Logging.Output = "stderr"
	}
	return newOrganizerApp(&local, appOptions{})
}

func printReport(out io.Writer, report *model.SweepReport, verbose bool) {
	if verbose && len(report.Results) > 0 {
		rows := make([][]string, 0, len(report.Results))
		for _, res := range report.Results {
			rows = append(rows, []string{
				filepath.Base(res.Source),
				string(res.Outcome),
				res.Category,
				res.Reason,
				strconv.Itoa(res.Attempts),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]tableColumn{col("File"), col("Outcome"), col("Category"), col("Reason"), rcol("Attempts")},
			rows,
		))
	}

	status := ""
	if report.Cancelled {
		status = " (cancelled)"
	}
	fmt.Fprintf(out, "Swept %s [%s]%s: %d moved, %d skipped, %d failed, %d ignored\n",
		report.BaseDir, report.Selection, status, report.Moved, report.Skipped, report.Failed, report.Ignored)
}
