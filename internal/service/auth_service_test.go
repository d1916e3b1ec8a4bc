package service

import (
	"net/http"
	"testing"
	"time"

	"anoa.com/blogplatform/internal/dto"
	"anoa.com/blogplatform/internal/model"
	"anoa.com/blogplatform/internal/repository"
	"anoa.com/blogplatform/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testSecret, time.Hour)

	resp, err := svc.Register(testCtx(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, []string{model.RoleUser}, resp.Roles)
	assert.NotEmpty(t, resp.Token)

	claims, err := ParseToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.ID.String(), claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{model.RoleUser}, claims.Roles)

	// The stored hash is a bcrypt digest, never the raw password.
	var user model.User
	require.NoError(t, db.First(&user, "username = ?", "alice").Error)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testSecret, time.Hour)

	_, err := svc.Register(testCtx(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Register(testCtx(), dto.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.EqualError(t, err, "Username is already taken!")

	_, err = svc.Register(testCtx(), dto.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.EqualError(t, err, "Email is already in use!")
}

func TestAuthService_Register_LostRaceConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewUserRepository(db)

	// The winner of a concurrent registration is already committed; the
	// loser's insert hits the username unique index.
	require.NoError(t, repo.Create(testCtx(), &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
	}))

	err := repo.Create(testCtx(), &model.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.Equal(t, http.StatusConflict, apperror.MapErrorToStatus(err))
}

func TestAuthService_Login(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testSecret, time.Hour)

	_, err := svc.Register(testCtx(), dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	resp, err := svc.Login(testCtx(), dto.LoginRequest{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)

	claims, err := ParseToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.ID.String(), claims.Subject)

	_, err = svc.Login(testCtx(), dto.LoginRequest{Username: "alice", Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.EqualError(t, err, "Invalid username or password")

	// Unknown usernames fail identically to wrong passwords.
	_, err = svc.Login(testCtx(), dto.LoginRequest{Username: "nobody", Password: "password123"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.EqualError(t, err, "Invalid username or password")
}

func TestParseToken_Rejections(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Expired", func(t *testing.T) {
		svc := NewAuthService(repository.NewUserRepository(db), testSecret, -time.Minute)
		resp, err := svc.Register(testCtx(), dto.RegisterRequest{
			Username: "expired",
			Email:    "expired@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		_, err = ParseToken(resp.Token, testSecret)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		svc := NewAuthService(repository.NewUserRepository(db), testSecret, time.Hour)
		resp, err := svc.Register(testCtx(), dto.RegisterRequest{
			Username: "signer",
			Email:    "signer@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		_, err = ParseToken(resp.Token, "another-secret")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParseToken("not.a.token", testSecret)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	})
}
