package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/app"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/config"
	pkgconfig "github.com/Zenuu19/Skill-Swap-Platform/pkg/config"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/logger"
)

type rootFlags struct {
	logLevel string
	envFiles []string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "skillswap",
		Short: "Skill swap request lifecycle and feedback service",
		Long: `skillswap manages skill exchange requests between users: creation,
acceptance, completion and cancellation, plus post-swap feedback and
aggregated ratings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return pkgconfig.LoadDotEnv(f.envFiles...)
		},
	}

	cmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "",
		"Log level (debug,info,warn,error); overrides LOG_LEVEL")
	cmd.PersistentFlags().StringSliceVar(&f.envFiles, "env-file", nil,
		"Dotenv files to load before reading the environment (default .env)")

	cmd.AddCommand(
		newServeCmd(f),
		newMigrateCmd(f),
		newTokenCmd(f),
	)
	return cmd
}

// setup loads configuration and builds the logger shared by all subcommands.
func (f *rootFlags) setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	return cfg, logger.NewWithFormat(app.ServiceName, cfg.LogLevel, cfg.LogFormat, os.Stdout), nil
}
