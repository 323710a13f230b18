package handlers

import (
	"log/slog"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/game-event-planner/internal/constants"
	"github.com/yukikurage/game-event-planner/internal/logging"
	"github.com/yukikurage/game-event-planner/internal/middleware"
	"github.com/yukikurage/game-event-planner/internal/services"
	"gorm.io/gorm"
)

// RouterDeps holds everything the HTTP layer needs.
type RouterDeps struct {
	DB                *gorm.DB
	Logger            *slog.Logger
	SessionStore      sessions.Store
	AuthService       *services.AuthService
	TaskService       *services.TaskService
	CredentialLimiter *middleware.CredentialLimiter
	// TrustedProxies may set X-Forwarded-For; nil trusts no proxy.
	TrustedProxies    []string
}

// NewRouter wires middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Logger.Warn("invalid trusted proxies, trusting none", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(deps.Logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	authHandler := NewAuthHandler(deps.AuthService)
	taskHandler := NewTaskHandler(deps.TaskService)
	healthHandler := NewHealthHandler(deps.DB)

	limiter := deps.CredentialLimiter
	if limiter == nil {
		limiter = middleware.NewCredentialLimiter(0)
	}

	requireAuth := middleware.RequireAuth(deps.AuthService)
	requireOwner := middleware.RequireTaskOwner(deps.TaskService)

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", limiter.Middleware(), authHandler.Register)
		api.POST("/login", limiter.Middleware(), authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.GET("/user", requireAuth, authHandler.GetCurrentUser)

		api.GET("/task-options", requireAuth, taskHandler.TaskOptions)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", requireOwner, taskHandler.GetTask)
			tasks.PATCH("/:id", requireOwner, taskHandler.UpdateTask)
			tasks.DELETE("/:id", requireOwner, taskHandler.DeleteTask)
		}
	}

	return r
}
