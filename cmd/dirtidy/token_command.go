package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newTokenCommand(ctx *commandContext) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token accepted by this host's server",
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, _, err := ctx.tokenService()
			if err != nil {
				return err
			}
			token, err := tokens.GenerateToken(subject, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "Token subject")
	return cmd
}
