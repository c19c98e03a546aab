package service

import (
	"context"
	"testing"
	"time"

	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/pkg/serverutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(env *testEnv) IAuthService {
	return NewAuthService(env.uowFactory, time.Hour, 24*time.Hour, env.log)
}

func TestRegisterAndLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "auth-test")
	ctx := context.Background()
	env := newTestEnv(t)
	auth := newAuth(env)

	reg, err := auth.Register(ctx, &dto.RegisterRequest{Name: "Ann", Email: "Ann@Example.com", Password: "s3cret-pass"}, "127.0.0.1", "test")
	require.NoError(t, err)
	assert.NotEmpty(t, reg.AccessToken)
	assert.NotEmpty(t, reg.RefreshToken)
	assert.False(t, reg.User.IsAnonymous)

	userId, role, err := serverutils.ParseAccessToken(reg.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.Id, userId)
	assert.Equal(t, "user", role)

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		_, err := auth.Register(ctx, &dto.RegisterRequest{Name: "Other", Email: "ann@example.com", Password: "another-pass"}, "", "")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login", func(t *testing.T) {
		res, err := auth.Login(ctx, &dto.LoginRequest{Email: "ann@example.com", Password: "s3cret-pass"}, "", "")
		require.NoError(t, err)
		assert.Equal(t, reg.User.Id, res.User.Id)
	})

	t.Run("wrong password and unknown email", func(t *testing.T) {
		_, err := auth.Login(ctx, &dto.LoginRequest{Email: "ann@example.com", Password: "nope"}, "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = auth.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "nope"}, "", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefreshRotatesAndLogoutRevokes(t *testing.T) {
	t.Setenv("JWT_SECRET", "auth-test")
	ctx := context.Background()
	env := newTestEnv(t)
	auth := newAuth(env)

	anon, err := auth.LoginAnonymous(ctx, "", "")
	require.NoError(t, err)
	assert.True(t, anon.User.IsAnonymous)
	assert.Nil(t, anon.User.Email)

	rotated, err := auth.Refresh(ctx, anon.RefreshToken, "", "")
	require.NoError(t, err)
	assert.Equal(t, anon.User.Id, rotated.User.Id)
	assert.NotEqual(t, anon.RefreshToken, rotated.RefreshToken)

	_, err = auth.Refresh(ctx, anon.RefreshToken, "", "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "old token is single use")

	require.NoError(t, auth.Logout(ctx, rotated.RefreshToken))
	_, err = auth.Refresh(ctx, rotated.RefreshToken, "", "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = auth.Refresh(ctx, "never-issued", "", "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
