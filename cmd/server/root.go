package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/yukikurage/game-event-planner/internal/config"
	"github.com/yukikurage/game-event-planner/internal/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

// newRootCmd creates the root command. Without a subcommand it serves HTTP.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "game-event-planner",
		Short: "Game event planner API server",
		Long: `game-event-planner serves the JSON API for planning game events:
user registration, cookie sessions and per-user task management.

Configuration is read from the environment and an optional .env file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg = config.Load()
			logger = logging.New(logging.Config{
				Service: "game-event-planner",
				Env:     cfg.GinMode,
				Level:   cfg.LogLevel,
				Format:  cfg.LogFormat,
			})
			slog.SetDefault(logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSweepSessionsCmd())

	return rootCmd
}
