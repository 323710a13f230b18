package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yukikurage/game-event-planner/internal/database"
	"github.com/yukikurage/game-event-planner/internal/session"
)

func newSweepSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-sessions",
		Short: "Delete expired sessions from the sessions table once",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Connect(cfg)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			removed, err := session.NewGormBackend(db).DeleteExpired(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to sweep sessions: %w", err)
			}

			logger.Info("expired sessions deleted", "count", removed)
			return nil
		},
	}
}
