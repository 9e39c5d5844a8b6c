package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hugh/linkstash/internal/auth"
	"github.com/hugh/linkstash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthService(t *testing.T) *auth.Service {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	jwtService := auth.NewJWTService("test-secret", time.Hour)
	return auth.NewService(db, jwtService, testutil.GuestDomain)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	t.Run("registers a new user", func(t *testing.T) {
		resp, err := svc.Register(ctx, auth.RegisterInput{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.False(t, resp.User.IsGuest)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, auth.RegisterInput{
			Name:     "Alice Again",
			Email:    "alice@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, auth.ErrUserExists)
	})

	t.Run("logs in with the right password", func(t *testing.T) {
		resp, err := svc.Login(ctx, auth.LoginInput{
			Email:    "alice@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginInput{
			Email:    "alice@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, auth.LoginInput{
			Email:    "nobody@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestAuthService_GuestLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	t.Run("mints a guest account", func(t *testing.T) {
		resp, err := svc.GuestLogin(ctx, "")
		require.NoError(t, err)
		assert.True(t, resp.User.IsGuest)
		assert.True(t, strings.HasSuffix(resp.User.Email, "@"+testutil.GuestDomain))
	})

	t.Run("a valid guest token resumes the same account", func(t *testing.T) {
		first, err := svc.GuestLogin(ctx, "")
		require.NoError(t, err)

		second, err := svc.GuestLogin(ctx, first.Token)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, second.User.ID)
	})

	t.Run("a garbage token mints a fresh guest", func(t *testing.T) {
		first, err := svc.GuestLogin(ctx, "")
		require.NoError(t, err)

		second, err := svc.GuestLogin(ctx, "garbage")
		require.NoError(t, err)
		assert.NotEqual(t, first.User.ID, second.User.ID)
	})

	t.Run("a regular user token does not resume as guest", func(t *testing.T) {
		reg, err := svc.Register(ctx, auth.RegisterInput{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: "secret123",
		})
		require.NoError(t, err)

		resumed, err := svc.GuestLogin(ctx, reg.Token)
		require.NoError(t, err)
		assert.NotEqual(t, reg.User.ID, resumed.User.ID)
		assert.True(t, resumed.User.IsGuest)
	})
}
