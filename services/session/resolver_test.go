package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/minisocial/config"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/jwt"
	"github.com/tech-arch1tect/minisocial/services/users"
)

type mockUserLookup struct {
	mock.Mock
}

func (m *mockUserLookup) GetByID(ctx context.Context, id uuid.UUID) (*users.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*users.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTokens() *jwt.Service {
	return jwt.NewService(config.JWTConfig{
		SecretKey:    "test-secret-key-32-chars-long!!!",
		Algorithm:    "HS256",
		AccessExpiry: time.Minute,
		Issuer:       "test-issuer",
	}, nil)
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	tokens := newTokens()

	t.Run("valid token loads the user", func(t *testing.T) {
		user := &users.User{ID: uuid.New(), Username: "alice", IsActive: true}
		lookup := &mockUserLookup{}
		lookup.On("GetByID", ctx, user.ID).Return(user, nil)
		resolver := NewResolver(tokens, lookup, nil)

		token, err := tokens.GenerateToken(user.ID)
		require.NoError(t, err)

		got, err := resolver.Resolve(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, user, got)
		lookup.AssertExpectations(t)
	})

	t.Run("invalid token never reaches the store", func(t *testing.T) {
		lookup := &mockUserLookup{}
		resolver := NewResolver(tokens, lookup, nil)

		_, err := resolver.Resolve(ctx, "garbage")

		assert.ErrorIs(t, err, autherr.ErrUnauthorized)
		assert.ErrorIs(t, err, autherr.ErrInvalidToken)
		lookup.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("expired token", func(t *testing.T) {
		resolver := NewResolver(tokens, &mockUserLookup{}, nil)
		token, err := tokens.GenerateTokenWithTTL(uuid.New(), 0)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, token)

		assert.ErrorIs(t, err, autherr.ErrUnauthorized)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("deleted user", func(t *testing.T) {
		userID := uuid.New()
		lookup := &mockUserLookup{}
		lookup.On("GetByID", ctx, userID).Return(nil, users.ErrNotFound)
		resolver := NewResolver(tokens, lookup, nil)
		token, err := tokens.GenerateToken(userID)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, token)

		assert.ErrorIs(t, err, autherr.ErrUnauthorized)
		assert.NotErrorIs(t, err, users.ErrNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		userID := uuid.New()
		lookup := &mockUserLookup{}
		lookup.On("GetByID", ctx, userID).Return(nil, autherr.Storage(errors.New("connection refused")))
		resolver := NewResolver(tokens, lookup, nil)
		token, err := tokens.GenerateToken(userID)
		require.NoError(t, err)

		_, err = resolver.Resolve(ctx, token)

		assert.ErrorIs(t, err, autherr.ErrStorageUnavailable)
		assert.NotErrorIs(t, err, autherr.ErrUnauthorized)
	})
}

func TestResolver_ResolveActive(t *testing.T) {
	ctx := context.Background()
	tokens := newTokens()

	inactive := &users.User{ID: uuid.New(), Username: "bob", IsActive: false}
	active := &users.User{ID: uuid.New(), Username: "alice", IsActive: true}
	lookup := &mockUserLookup{}
	lookup.On("GetByID", ctx, inactive.ID).Return(inactive, nil)
	lookup.On("GetByID", ctx, active.ID).Return(active, nil)
	resolver := NewResolver(tokens, lookup, nil)

	token, err := tokens.GenerateToken(inactive.ID)
	require.NoError(t, err)
	_, err = resolver.ResolveActive(ctx, token)
	assert.ErrorIs(t, err, autherr.ErrInactiveUser)

	user, err := resolver.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, inactive, user)

	token, err = tokens.GenerateToken(active.ID)
	require.NoError(t, err)
	user, err = resolver.ResolveActive(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, active, user)
}
