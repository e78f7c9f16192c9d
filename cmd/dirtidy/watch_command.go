package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajkula/dirtidy/domain/model"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var categories string
	var noSweep bool

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Sort DIR, then keep sorting files as they are written until interrupted",
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

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			var info model.SessionInfo
			if noSweep {
				info, err = app.organizer.StartWatch(runCtx, args[0], sel)
			} else {
				var report *model.SweepReport
				report, info, err = app.organizer.Organize(runCtx, args[0], sel)
				if report != nil {
					printReport(out, report, false)
				}
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Watching %s [%s]; press Ctrl-C to stop\n", info.Path, sel.String())
			<-runCtx.Done()

			shutdownCtx, cancel := contextWithTimeout(shutdownTimeout)
			defer cancel()
			if err := app.organizer.Shutdown(shutdownCtx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Stopped watching")
			return nil
		},
	}

	cmd.Flags().StringVarP(&categories, "categories", "c", "todos", "Category selectors such as 4,6,3 or todos")
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "Only handle new writes, leave existing files in place")
	return cmd
}
