package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/game-event-planner/internal/credential"
	"github.com/yukikurage/game-event-planner/internal/repository"
	"github.com/yukikurage/game-event-planner/internal/testutil"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewAuthService(repository.NewUserRepository(db))
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotContains(t, user.Password, "secret1")

	ok, err := credential.Verify("secret1", user.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	loggedIn, err := svc.Login(ctx, LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	fetched, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", fetched.Username)
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	for _, password := range []string{"secret1", "another-password"} {
		_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: password})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{"missing username", RegisterInput{Password: "secret1"}, "username"},
		{"short username", RegisterInput{Username: "al", Password: "secret1"}, "username"},
		{"long username", RegisterInput{Username: strings.Repeat("a", 51), Password: "secret1"}, "username"},
		{"blank username", RegisterInput{Username: "    ", Password: "secret1"}, "username"},
		{"missing password", RegisterInput{Username: "alice"}, "password"},
		{"short password", RegisterInput{Username: "alice", Password: "12345"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Username: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Username: "Alice", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "usernames are case-sensitive")
}

func TestAuthService_UsernameStoredAsGiven(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	for _, name := range []string{" bob", "bob ", " bob ", "\tbob"} {
		_, err := svc.Register(ctx, RegisterInput{Username: name, Password: "secret1"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "%q", name)
		assert.Equal(t, "must not start or end with whitespace", verr.Fields["username"])
	}

	user, err := svc.Register(ctx, RegisterInput{Username: "bob the builder", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "bob the builder", user.Username)

	loggedIn, err := svc.Login(ctx, LoginInput{Username: "bob the builder", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestAuthService_GetUserNotFound(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidationError_Error(t *testing.T) {
	verr := &ValidationError{}
	verr.Add("title", "is required")
	verr.Add("endDate", "must not be before startDate")
	verr.Add("title", "ignored")

	assert.Equal(t, "validation failed: endDate: must not be before startDate; title: is required", verr.Error())
}
