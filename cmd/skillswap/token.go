package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/auth"
)

// newTokenCmd mints access tokens signed with JWT_SECRET, for local testing
// and operator scripts.
func newTokenCmd(f *rootFlags) *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Print a signed access token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("user id must be a UUID: %w", err)
			}
			if role != auth.RoleUser && role != auth.RoleAdmin {
				return fmt.Errorf("role must be %q or %q", auth.RoleUser, auth.RoleAdmin)
			}

			cfg, _, err := f.setup()
			if err != nil {
				return err
			}

			token, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer).GenerateAccessToken(args[0], role, ttl)
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", auth.RoleUser, "role claim (user or admin)")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
