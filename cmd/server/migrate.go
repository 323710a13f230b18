package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/game-event-planner/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			logger.Info("migrations applied", "db_driver", cfg.DBDriver)
			return nil
		},
	}
}
