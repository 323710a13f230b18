package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yukikurage/game-event-planner/internal/constants"
)

const defaultSessionSecret = "default-secret-key-change-me"

// Session backends
const (
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver       string
	DatabaseURL    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBLogLevel     string

	SessionBackend       string
	SessionSecret        string
	SessionMaxAge        time.Duration
	SessionSweepInterval time.Duration
	RedisURL             string

	StrictTaskTypes bool
	LoginRateLimit  int

	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers decide the client IP. Empty means the peer address is used.
	TrustedProxies []string

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "taskuser"),
		DBPassword:     getEnv("DB_PASSWORD", "taskpassword"),
		DBName:         getEnv("DB_NAME", "game_events"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DBLogLevel:     getEnv("DB_LOG_LEVEL", "warn"),

		SessionBackend:       strings.ToLower(getEnv("SESSION_BACKEND", SessionBackendDatabase)),
		SessionSecret:        getEnv("SESSION_SECRET", defaultSessionSecret),
		SessionMaxAge:        getEnvDuration("SESSION_MAX_AGE", constants.DefaultSessionMaxAge),
		SessionSweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 15*time.Minute),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),

		StrictTaskTypes: getEnvBool("STRICT_TASK_TYPES", false),
		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		TrustedProxies:  getEnvList("TRUSTED_PROXIES"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// IsProduction reports whether the server runs in gin release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// UsesDefaultSecret reports whether SESSION_SECRET was left at its development value.
func (c *Config) UsesDefaultSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated variable, dropping empty items.
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value)
		return defaultValue
	}
	return d
}
