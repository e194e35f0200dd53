package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/exam-service/internal/models"
)

func TestAuthService(t *testing.T) {
	ctx := context.Background()

	t.Run("register creates user with student profile", func(t *testing.T) {
		env := newTestEnv(t)
		resp, err := env.auth.Register(ctx, &RegisterRequest{
			Username: "newuser",
			Email:    "new@example.com",
			Password: "supersecret",
			Name:     "New User",
		})
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, models.RoleStudent, resp.User.Role)

		student, err := env.repo.Student().GetByUserID(ctx, resp.User.ID)
		require.NoError(t, err)
		assert.Equal(t, "New User", student.Name)
	})

	t.Run("duplicate username and email rejected", func(t *testing.T) {
		env := newTestEnv(t)
		req := &RegisterRequest{Username: "taken", Email: "taken@example.com", Password: "supersecret", Name: "T"}
		_, err := env.auth.Register(ctx, req)
		require.NoError(t, err)

		_, err = env.auth.Register(ctx, req)
		assert.ErrorIs(t, err, ErrUsernameTaken)

		req2 := &RegisterRequest{Username: "other", Email: "taken@example.com", Password: "supersecret", Name: "T"}
		_, err = env.auth.Register(ctx, req2)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("login verifies credentials", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.auth.Register(ctx, &RegisterRequest{
			Username: "loginuser", Email: "login@example.com", Password: "supersecret", Name: "L",
		})
		require.NoError(t, err)

		resp, err := env.auth.Login(ctx, &LoginRequest{Username: "loginuser", Password: "supersecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)

		_, err = env.auth.Login(ctx, &LoginRequest{Username: "loginuser", Password: "wrongpass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = env.auth.Login(ctx, &LoginRequest{Username: "ghost", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("issued token round-trips through verify", func(t *testing.T) {
		env := newTestEnv(t)
		resp, err := env.auth.Register(ctx, &RegisterRequest{
			Username: "tokenuser", Email: "token@example.com", Password: "supersecret", Name: "T",
		})
		require.NoError(t, err)

		claims, err := env.auth.VerifyToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, models.RoleStudent, claims.Role)

		_, err = env.auth.VerifyToken(resp.AccessToken + "broken")
		assert.Error(t, err)
	})
}
