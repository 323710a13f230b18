package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/game-event-planner/internal/config"
	"github.com/yukikurage/game-event-planner/internal/models"
	"gorm.io/gorm/logger"
)

func TestOpen_SQLiteMemoryAndMigrate(t *testing.T) {
	db, err := Open(Options{Driver: DriverSQLite, DSN: ":memory:", MaxOpenConns: 20, LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Migrate(db))
	// Running twice must be harmless
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "tasks", "sessions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	for _, column := range []string{"session_id", "expires", "data"} {
		assert.True(t, db.Migrator().HasColumn(&models.Session{}, column), column)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Task{}, "idx_tasks_user_start"))

	require.NoError(t, Ping(context.Background(), db))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Options{Driver: "oracle", DSN: "whatever"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestBuildDSN(t *testing.T) {
	cfg := &config.Config{
		DBDriver:   DriverMySQL,
		DBHost:     "db",
		DBPort:     "3306",
		DBUser:     "u",
		DBPassword: "p",
		DBName:     "events",
	}
	assert.Equal(t, "u:p@tcp(db:3306)/events?charset=utf8mb4&parseTime=True&loc=UTC", buildDSN(cfg))

	cfg.DBDriver = DriverPostgres
	cfg.DBPort = "5432"
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=events sslmode=disable TimeZone=UTC", buildDSN(cfg))

	cfg.DBDriver = DriverSQLite
	assert.Equal(t, "events.db", buildDSN(cfg))

	cfg.DatabaseURL = "mysql://override"
	assert.Equal(t, "mysql://override", buildDSN(cfg))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:?_time_format=sqlite", sqliteDSN(":memory:"))
	assert.Equal(t, "file:x.db?cache=shared&_time_format=sqlite", sqliteDSN("file:x.db?cache=shared"))
	assert.Equal(t, "x.db?_time_format=sqlite", sqliteDSN("x.db?_time_format=sqlite"))
}
