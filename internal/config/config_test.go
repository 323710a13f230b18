package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SESSION_MAX_AGE", "")
	t.Setenv("STRICT_TASK_TYPES", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()

	require.Equal(t, "mysql", cfg.DBDriver)
	require.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	require.Equal(t, 20, cfg.DBMaxOpenConns)
	require.False(t, cfg.StrictTaskTypes)
	require.True(t, cfg.UsesDefaultSecret())
	require.Empty(t, cfg.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("SESSION_MAX_AGE", "2h")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("STRICT_TASK_TYPES", "true")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("SESSION_SECRET", "a-real-secret")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, ,127.0.0.1")

	cfg := Load()

	require.Equal(t, "postgres", cfg.DBDriver)
	require.Equal(t, 2*time.Hour, cfg.SessionMaxAge)
	require.Equal(t, 5, cfg.DBMaxOpenConns)
	require.True(t, cfg.StrictTaskTypes)
	require.True(t, cfg.IsProduction())
	require.False(t, cfg.UsesDefaultSecret())
	require.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.TrustedProxies)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")
	t.Setenv("SESSION_MAX_AGE", "-1h")
	t.Setenv("STRICT_TASK_TYPES", "maybe")

	cfg := Load()

	require.Equal(t, 20, cfg.DBMaxOpenConns)
	require.Equal(t, 24*time.Hour, cfg.SessionMaxAge)
	require.False(t, cfg.StrictTaskTypes)
}
