// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/game-event-planner/internal/database"
	"github.com/yukikurage/game-event-planner/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed when
// the test ends.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{
		Driver:   database.DriverSQLite,
		DSN:      ":memory:",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser inserts a user with a placeholder credential.
func CreateUser(t testing.TB, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Password: "not-a-real-credential",
	}
	require.NoError(t, db.WithContext(context.Background()).Create(user).Error)
	return user
}

// CreateTask inserts a task owned by userID starting at start.
func CreateTask(t testing.TB, db *gorm.DB, title string, userID uint64, start time.Time) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:     title,
		EventType: models.EventTypeTournament,
		GameType:  models.GameTypeFPS,
		StartDate: start.UTC(),
		EndDate:   start.Add(2 * time.Hour).UTC(),
		UserID:    userID,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(task).Error)
	return task
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
