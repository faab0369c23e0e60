package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/qrave1/MemStudy/internal/domain/models"
	"github.com/qrave1/MemStudy/internal/infra/adapters/postgres/repository"
)

var testSecret = []byte("test-secret")

func TestUserUsecase_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password", func(t *testing.T) {
		repo := new(userRepoMock)
		uc := NewUserUsecase(testSecret, time.Hour, repo)

		var stored *models.User
		repo.On("CreateUser", ctx, mock.AnythingOfType("*models.User")).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*models.User) }).
			Return(nil).Once()

		user, err := uc.CreateUser(ctx, "  alice ", "secret1")
		require.NoError(t, err)

		assert.Equal(t, "alice", user.Username)
		assert.Empty(t, user.Password)
		require.NotNil(t, stored)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := new(userRepoMock)
		uc := NewUserUsecase(testSecret, time.Hour, repo)

		repo.On("CreateUser", ctx, mock.Anything).Return(fmt.Errorf("create user: %w", repository.ErrDuplicate)).Once()

		_, err := uc.CreateUser(ctx, "alice", "secret1")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("validation", func(t *testing.T) {
		repo := new(userRepoMock)
		uc := NewUserUsecase(testSecret, time.Hour, repo)

		_, err := uc.CreateUser(ctx, "al", "secret1")
		assert.ErrorIs(t, err, ErrValidation)

		_, err = uc.CreateUser(ctx, "alice", "123")
		assert.ErrorIs(t, err, ErrValidation)

		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})
}

func TestUserUsecase_ValidateCredentials(t *testing.T) {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := models.NewUser("alice", string(hash))

	repo := new(userRepoMock)
	repo.On("GetUserByUsername", ctx, "alice").Return(stored, nil)
	repo.On("GetUserByUsername", ctx, "ghost").Return(nil, fmt.Errorf("get user: %w", repository.ErrNotFound))

	uc := NewUserUsecase(testSecret, time.Hour, repo)

	user, err := uc.ValidateCredentials(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	assert.Empty(t, user.Password)

	_, err = uc.ValidateCredentials(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.ValidateCredentials(ctx, "ghost", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserUsecase_GenerateJWT(t *testing.T) {
	uc := NewUserUsecase(testSecret, time.Hour, new(userRepoMock))
	user := models.NewUser("alice", "")

	signed, err := uc.GenerateJWT(user)
	require.NoError(t, err)

	claims := new(jwt.RegisteredClaims)
	token, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
		return testSecret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}
