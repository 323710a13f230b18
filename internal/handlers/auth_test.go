package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/game-event-planner/internal/dto"
	apierrors "github.com/yukikurage/game-event-planner/internal/errors"
	"github.com/yukikurage/game-event-planner/internal/middleware"
	"github.com/yukikurage/game-event-planner/internal/models"
	"github.com/yukikurage/game-event-planner/internal/repository"
	"github.com/yukikurage/game-event-planner/internal/services"
	"github.com/yukikurage/game-event-planner/internal/session"
	"github.com/yukikurage/game-event-planner/internal/testutil"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)
	cl := env.client(t)

	w := cl.do(http.MethodPost, "/api/register", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")

	user := decode[dto.UserDTO](t, w)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.CreatedAt.IsZero())
	require.NotNil(t, cl.cookie, "registration logs the user in")

	var stored models.User
	require.NoError(t, env.db.First(&stored, user.ID).Error)
	assert.NotEqual(t, "secret1", stored.Password)

	w = cl.do(http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, user.ID, decode[dto.UserDTO](t, w).ID)
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	env := setupTestEnv(t)
	env.client(t).register("alice", "secret1")

	w := env.client(t).do(http.MethodPost, "/api/register", dto.CredentialsRequest{Username: "alice", Password: "different"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	apiErr := decode[apierrors.APIError](t, w)
	assert.Equal(t, apierrors.ErrCodeAlreadyExists, apiErr.Code)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	env := setupTestEnv(t)
	cl := env.client(t)

	w := cl.do(http.MethodPost, "/api/register", dto.CredentialsRequest{Username: "al", Password: "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{
		"code": "INVALID_INPUT",
		"message": "Validation failed",
		"details": {
			"username": "must be at least 3 characters",
			"password": "must be at least 6 characters"
		}
	}`, w.Body.String())
	assert.Nil(t, cl.cookie)

	w = cl.do(http.MethodPost, "/api/register", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	registered := env.client(t).register("alice", "secret1")

	cl := env.client(t)
	w := cl.do(http.MethodPost, "/api/login", dto.CredentialsRequest{Username: "alice", Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, registered.ID, decode[dto.UserDTO](t, w).ID)
	require.NotNil(t, cl.cookie)

	w = cl.do(http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[dto.UserDTO](t, w).Username)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	env := setupTestEnv(t)
	env.client(t).register("alice", "secret1")

	for _, creds := range []dto.CredentialsRequest{
		{Username: "alice", Password: "wrong-password"},
		{Username: "mallory", Password: "secret1"},
		{},
	} {
		cl := env.client(t)
		w := cl.do(http.MethodPost, "/api/login", creds)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, apierrors.ErrCodeInvalidCredentials, decode[apierrors.APIError](t, w).Code)
		assert.Nil(t, cl.cookie)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupTestEnv(t)
	cl := env.client(t)
	cl.register("alice", "secret1")
	staleCookie := cl.cookie

	w := cl.do(http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, cl.cookie, "logout expires the cookie")

	var sessions int64
	require.NoError(t, env.db.Model(&models.Session{}).Count(&sessions).Error)
	assert.Zero(t, sessions, "logout removes the server-side session")

	// Replaying the old cookie does not authenticate.
	cl.cookie = staleCookie
	w = cl.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out twice is not an error.
	w = cl.do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.client(t).do(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_LoginIssuesFreshSession(t *testing.T) {
	env := setupTestEnv(t)

	attacker := env.client(t)
	attacker.register("mallory", "secret1")
	planted := attacker.cookie

	victim := env.client(t)
	victim.register("victim", "secret2")
	victim.do(http.MethodPost, "/api/logout", nil)

	victim.cookie = planted
	w := victim.do(http.MethodPost, "/api/login", dto.CredentialsRequest{Username: "victim", Password: "secret2"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, victim.cookie)
	assert.NotEqual(t, planted.Value, victim.cookie.Value, "login issues a new session id")

	w = victim.do(http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "victim", decode[dto.UserDTO](t, w).Username)

	attacker.cookie = planted
	w = attacker.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "the pre-login cookie no longer resolves")
}

func TestRouter_LoginLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	env := setupTestEnv(t)
	router := NewRouter(RouterDeps{
		DB:                env.db,
		Logger:            testutil.DiscardLogger(),
		SessionStore:      session.NewStore(session.NewGormBackend(env.db), []byte("handler-test-secret-handler-test")),
		AuthService:       services.NewAuthService(repository.NewUserRepository(env.db)),
		TaskService:       services.NewTaskService(repository.NewTaskRepository(env.db)),
		CredentialLimiter: middleware.NewCredentialLimiter(2),
	})

	codes := map[int]int{}
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"alice","password":"wrong-password"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes[w.Code]++
	}

	assert.Equal(t, map[int]int{http.StatusUnauthorized: 2, http.StatusTooManyRequests: 18}, codes)
}

func TestAuthHandler_GetCurrentUserUnauthenticated(t *testing.T) {
	env := setupTestEnv(t)

	w := env.client(t).do(http.MethodGet, "/api/user", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apierrors.ErrCodeUnauthorized, decode[apierrors.APIError](t, w).Code)
}

func TestAuthHandler_SessionOfDeletedUser(t *testing.T) {
	env := setupTestEnv(t)
	cl := env.client(t)
	user := cl.register("alice", "secret1")

	require.NoError(t, env.db.Delete(&models.User{}, user.ID).Error)

	w := cl.do(http.MethodGet, "/api/user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealthHandler(t *testing.T) {
	env := setupTestEnv(t)

	w := env.client(t).do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
