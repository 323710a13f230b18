package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/game-event-planner/internal/config"
	"github.com/yukikurage/game-event-planner/internal/database"
	"github.com/yukikurage/game-event-planner/internal/handlers"
	"github.com/yukikurage/game-event-planner/internal/middleware"
	"github.com/yukikurage/game-event-planner/internal/repository"
	"github.com/yukikurage/game-event-planner/internal/services"
	"github.com/yukikurage/game-event-planner/internal/session"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	gin.SetMode(cfg.GinMode)

	if cfg.IsProduction() && cfg.UsesDefaultSecret() {
		logger.Warn("SESSION_SECRET is unset; sessions are signed with the built-in development key")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Error("error closing database", "error", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	backend, closeBackend, err := newSessionBackend(cfg, db)
	if err != nil {
		return err
	}
	defer closeBackend()

	store := newSessionStore(cfg, backend)

	authService := services.NewAuthService(repository.NewUserRepository(db))
	taskService := services.NewTaskService(
		repository.NewTaskRepository(db),
		services.WithStrictTaskTypes(cfg.StrictTaskTypes),
	)

	router := handlers.NewRouter(handlers.RouterDeps{
		DB:                db,
		Logger:            logger,
		SessionStore:      store,
		AuthService:       authService,
		TaskService:       taskService,
		CredentialLimiter: middleware.NewCredentialLimiter(cfg.LoginRateLimit),
		TrustedProxies:    cfg.TrustedProxies,
	})

	// Redis expires sessions itself; only the table needs sweeping.
	if cfg.SessionBackend == config.SessionBackendDatabase {
		housekeeping := services.NewHousekeepingService(backend, logger, cfg.SessionSweepInterval)
		housekeeping.Start()
		defer housekeeping.Stop()
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.ListenAndServe()
	}()

	logger.Info("server starting", "port", cfg.Port, "db_driver", cfg.DBDriver, "session_backend", cfg.SessionBackend)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newSessionBackend picks the session storage named by the configuration.
// The returned func releases it.
func newSessionBackend(cfg *config.Config, db *gorm.DB) (session.Backend, func(), error) {
	switch cfg.SessionBackend {
	case config.SessionBackendDatabase:
		return session.NewGormBackend(db), func() {}, nil
	case config.SessionBackendRedis:
		client, err := session.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisBackend(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported SESSION_BACKEND %q", cfg.SessionBackend)
	}
}

func newSessionStore(cfg *config.Config, backend session.Backend) *session.Store {
	store := session.NewStore(backend, []byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
