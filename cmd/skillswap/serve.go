package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/app"
)

func newServeCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := f.setup()
			if err != nil {
				return err
			}
			log.Info("starting skillswap service",
				slog.String("environment", cfg.Environment),
				slog.String("version", app.Version),
				slog.Int("http_port", cfg.HTTPPort),
				slog.String("directory_mode", cfg.DirectoryMode),
			)

			application, err := app.NewApp(cfg, log)
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}

			// Canceled on SIGINT or SIGTERM.
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := application.Run(ctx); err != nil {
				return fmt.Errorf("run application: %w", err)
			}

			log.Info("skillswap service stopped")
			return nil
		},
	}
}
