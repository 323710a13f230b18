package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yukikurage/game-event-planner/internal/constants"
	"github.com/yukikurage/game-event-planner/internal/dto"
	apierrors "github.com/yukikurage/game-event-planner/internal/errors"
	"github.com/yukikurage/game-event-planner/internal/logging"
	"github.com/yukikurage/game-event-planner/internal/middleware"
	"github.com/yukikurage/game-event-planner/internal/models"
	"github.com/yukikurage/game-event-planner/internal/services"
	"github.com/yukikurage/game-event-planner/internal/session"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user and logs them in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			apierrors.BadRequestWithDetails(c, "Validation failed", verr.Fields)
		case errors.Is(err, services.ErrUsernameTaken):
			apierrors.AlreadyExists(c, "Username already exists")
		default:
			logging.FromContext(c.Request.Context()).Error("registration failed", "error", err)
			apierrors.InternalError(c, "Registration failed")
		}
		return
	}

	if !h.startSession(c, user) {
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.CredentialsRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.InvalidCredentials(c)
			return
		}
		logging.FromContext(c.Request.Context()).Error("login failed", "error", err)
		apierrors.InternalError(c, "")
		return
	}

	if !h.startSession(c, user) {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// startSession binds a freshly issued session id to user. Whatever the
// request's cookie referred to before is discarded.
func (h *AuthHandler) startSession(c *gin.Context, user *models.User) bool {
	s := sessions.Default(c)
	s.Clear()
	session.Renew(s)
	s.Set(constants.ContextKeyUserID, user.ID)
	if err := s.Save(); err != nil {
		logging.FromContext(c.Request.Context()).Error("failed to save session", "user_id", user.ID, "error", err)
		apierrors.InternalError(c, "Failed to save session")
		return false
	}
	return true
}

// Logout removes the authentication session. Logging out without a
// session succeeds too.
func (h *AuthHandler) Logout(c *gin.Context) {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1, HttpOnly: true})
	if err := s.Save(); err != nil {
		logging.FromContext(c.Request.Context()).Error("failed to delete session", "error", err)
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
