package service_test

import (
	"context"
	"testing"

	"skim/backend/internal/repository"
	"skim/backend/internal/repository/testutil"
	"skim/backend/internal/service"

	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) service.AuthService {
	t.Helper()
	db := testutil.NewTestDB(t)
	return service.NewAuthService(repository.NewUserRepository(db), "test-secret")
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEqual(t, "correct horse battery", user.PasswordHash)

	token, loggedIn, err := svc.Login(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, user.ID, loggedIn.ID)

	auth, err := svc.ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, auth.UserID)
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@example.com", "long enough pass")
	require.ErrorIs(t, err, service.ErrInvalid)

	_, err = svc.Register(ctx, "alice", "", "long enough pass")
	require.ErrorIs(t, err, service.ErrInvalid)

	_, err = svc.Register(ctx, "alice", "a@example.com", "short")
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "long enough pass")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "long enough pass")
	require.ErrorIs(t, err, service.ErrConflict)

	_, err = svc.Register(ctx, "other", "alice@example.com", "long enough pass")
	require.ErrorIs(t, err, service.ErrConflict)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "long enough pass")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong password")
	require.ErrorIs(t, err, service.ErrUnauthorized)

	// Unknown user fails the same way as a wrong password.
	_, _, err = svc.Login(ctx, "nobody", "long enough pass")
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAuthService_ValidateToken_Garbage(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := repository.NewUserRepository(db)
	issuer := service.NewAuthService(users, "secret-a")
	verifier := service.NewAuthService(users, "secret-b")
	ctx := context.Background()

	_, err := issuer.Register(ctx, "alice", "alice@example.com", "long enough pass")
	require.NoError(t, err)
	token, _, err := issuer.Login(ctx, "alice", "long enough pass")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}
