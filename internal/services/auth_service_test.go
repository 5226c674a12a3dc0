package services

import (
	"Folio/internal/apperr"
	"Folio/internal/models"
	"Folio/internal/repository"
	"Folio/internal/testutil"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) (*AuthServiceImpl, repository.SessionRepository) {
	db := testutil.NewTestDatabase(t)
	sessions := repository.NewSessionRepository(db)
	service := NewAuthService(repository.NewUserRepository(db), sessions, testConfiguration(), newTestLogService())
	return service.(*AuthServiceImpl), sessions
}

func TestAuthService_CreateUserAndLogin(t *testing.T) {
	service, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := service.CreateUser(ctx, "dana", "correct horse", "Dana", models.RoleAdmin)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	session, loggedIn, err := service.Login(ctx, "dana", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, session.Token)

	authenticated, err := service.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "dana", authenticated.Username)
	assert.Equal(t, models.RoleAdmin, authenticated.Role)

	require.NoError(t, service.Logout(ctx, session.Token))
	_, err = service.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestAuthService_LoginFailures(t *testing.T) {
	service, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := service.CreateUser(ctx, "erin", "password123", "", models.RoleUser)
	require.NoError(t, err)

	_, _, err = service.Login(ctx, "erin", "wrong-password")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, _, err = service.Login(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, _, err = service.Login(ctx, "", "")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestAuthService_CreateUserValidation(t *testing.T) {
	service, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := service.CreateUser(ctx, "frank", "short", "", models.RoleUser)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = service.CreateUser(ctx, "frank", "password123", "", models.Role("root"))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	user, err := service.CreateUser(ctx, "frank", "password123", "", "")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	_, err = service.CreateUser(ctx, "frank", "password123", "", models.RoleUser)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAuthService_ExpiredSession(t *testing.T) {
	service, sessions := newTestAuthService(t)
	ctx := context.Background()
	_, err := service.CreateUser(ctx, "gail", "password123", "", models.RoleUser)
	require.NoError(t, err)

	session, _, err := service.Login(ctx, "gail", "password123")
	require.NoError(t, err)

	service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = service.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	stored, err := sessions.FindByToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, stored)

	_, err = service.Authenticate(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

func TestAuthService_PurgeExpiredSessions(t *testing.T) {
	service, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := service.CreateUser(ctx, "hank", "password123", "", models.RoleUser)
	require.NoError(t, err)
	_, _, err = service.Login(ctx, "hank", "password123")
	require.NoError(t, err)

	removed, err := service.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	removed, err = service.PurgeExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
