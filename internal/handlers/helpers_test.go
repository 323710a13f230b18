package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/game-event-planner/internal/constants"
	"github.com/yukikurage/game-event-planner/internal/dto"
	"github.com/yukikurage/game-event-planner/internal/repository"
	"github.com/yukikurage/game-event-planner/internal/services"
	"github.com/yukikurage/game-event-planner/internal/session"
	"github.com/yukikurage/game-event-planner/internal/testutil"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupTestEnv(t testing.TB, opts ...services.TaskServiceOption) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	router := NewRouter(RouterDeps{
		DB:           db,
		Logger:       testutil.DiscardLogger(),
		SessionStore: session.NewStore(session.NewGormBackend(db), []byte("handler-test-secret-handler-test")),
		AuthService:  services.NewAuthService(repository.NewUserRepository(db)),
		TaskService:  services.NewTaskService(repository.NewTaskRepository(db), opts...),
	})

	return &testEnv{db: db, router: router}
}

// client remembers the session cookie between requests like a browser.
type client struct {
	t      testing.TB
	router http.Handler
	cookie *http.Cookie
}

func (e *testEnv) client(t testing.TB) *client {
	return &client{t: t, router: e.router}
}

func (cl *client) do(method, path string, body any) *httptest.ResponseRecorder {
	cl.t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case string:
		req = httptest.NewRequest(method, path, bytes.NewBufferString(b))
		req.Header.Set("Content-Type", "application/json")
	default:
		data, err := json.Marshal(b)
		require.NoError(cl.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}

	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name != constants.SessionCookieName {
			continue
		}
		if c.MaxAge < 0 {
			cl.cookie = nil
		} else {
			cl.cookie = c
		}
	}
	return w
}

// register signs up username and leaves the client logged in.
func (cl *client) register(username, password string) dto.UserDTO {
	cl.t.Helper()

	w := cl.do(http.MethodPost, "/api/register", dto.CredentialsRequest{Username: username, Password: password})
	require.Equal(cl.t, http.StatusCreated, w.Code, w.Body.String())

	var user dto.UserDTO
	require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &user))
	return user
}

func decode[T any](t testing.TB, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
