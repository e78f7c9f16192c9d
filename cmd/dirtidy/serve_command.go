package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the organizer server with its REST API and configured watches",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := newServer(ctx)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.start(runCtx); err != nil {
				_ = srv.stop(shutdownTimeout)
				return err
			}

			out := cmd.OutOrStdout()
			if srv.http != nil {
				fmt.Fprintf(out, "API listening on http://%s\n", srv.http.Addr())
			}
			if srv.grpc != nil {
				fmt.Fprintf(out, "gRPC health on %s\n", srv.grpc.Addr())
			}
			fmt.Fprintf(out, "%d folder(s) watched; press Ctrl-C to stop\n", srv.organizer.Sessions().Len())

			<-runCtx.Done()
			srv.logger.Info("Shutting down", "cause", context.Cause(runCtx))
			return srv.stop(shutdownTimeout)
		},
	}
}
