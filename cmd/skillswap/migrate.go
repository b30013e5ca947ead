package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/app"
	"github.com/Zenuu19/Skill-Swap-Platform/migrations"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/database"
)

func newMigrateCmd(f *rootFlags) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := f.setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			pool, err := app.OpenDatabase(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := database.RunMigrations(ctx, pool, migrations.FS, log)
			if err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}
			log.Info("database migrations completed", slog.Int("applied", applied))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline for connecting and migrating")
	return cmd
}
