package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajkula/dirtidy/adapter/inbound/rest"
	"github.com/ajkula/dirtidy/domain/model"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Manage the watch sessions of a running server",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsStartCommand(ctx))
	sessionsCmd.AddCommand(newSessionsStopCommand(ctx))
	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List active watch sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			sessions, err := client.Sessions(cmd.Context())
			if err != nil {
				return wrapClientError(err, ctx.serverURL())
			}
			printSessions(cmd.OutOrStdout(), sessions)
			return nil
		},
	}
}

func newSessionsStartCommand(ctx *commandContext) *cobra.Command {
	var categories string
	var sweep bool

	cmd := &cobra.Command{
		Use:   "start DIR",
		Short: "Ask the server to watch DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := selectionFlag(categories); err != nil {
				return err
			}

			// the server resolves paths against its own working directory
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve %s: %w", args[0], err)
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			resp, err := client.StartSession(cmd.Context(), rest.StartSessionRequest{
				Path:       dir,
				Categories: categories,
				Sweep:      sweep,
			})
			if err != nil {
				return wrapClientError(err, ctx.serverURL())
			}

			out := cmd.OutOrStdout()
			if resp.Report != nil {
				printReport(out, resp.Report, false)
			}
			fmt.Fprintf(out, "Session %d watching %s\n", resp.Session.Index, resp.Session.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&categories, "categories", "c", "todos", "Category selectors such as 4,6,3 or todos")
	cmd.Flags().BoolVar(&sweep, "sweep", false, "Sort existing files before watching")
	return cmd
}

func newSessionsStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop INDEX...",
		Short: "Stop watch sessions by the index shown in `sessions list`",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indices, err := parseIndices(args)
			if err != nil {
				return err
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(indices) == 1 {
				info, err := client.StopSession(cmd.Context(), indices[0])
				if err != nil {
					return wrapClientError(err, ctx.serverURL())
				}
				fmt.Fprintf(out, "Stopped session %d (%s)\n", indices[0], info.Path)
				return nil
			}

			resp, err := client.StopSessions(cmd.Context(), indices)
			if err != nil {
				return wrapClientError(err, ctx.serverURL())
			}
			for _, info := range resp.Stopped {
				fmt.Fprintf(out, "Stopped session %d (%s)\n", info.Index, info.Path)
			}
			if len(resp.Errors) > 0 {
				return fmt.Errorf("some sessions were not stopped: %s", strings.Join(resp.Errors, "; "))
			}
			return nil
		},
	}
}

func printSessions(out io.Writer, sessions []model.SessionInfo) {
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No active sessions")
		return
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.Path,
			strings.Join(s.Categories, ","),
			string(s.State),
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]tableColumn{rcol("#"), col("Path"), col("Categories"), col("State"), col("Started")},
		rows,
	))
}
