package cli

import (
	"errors"
	"fmt"
	"time"

	"region-latency-demo/internal/middleware"

	"github.com/spf13/cobra"
)

func newTokenCommand(opts *options) *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the seeding API routes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config(cmd)
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			token, err := middleware.IssueToken(cfg.Auth.JWTSecret, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "operator", "Token subject")
	cmd.Flags().StringVar(&role, "role", middleware.RoleAdmin, "Token role")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	return cmd
}
