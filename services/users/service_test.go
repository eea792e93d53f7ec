package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tech-arch1tect/minisocial/services/autherr"
	"github.com/tech-arch1tect/minisocial/services/password"
	"github.com/tech-arch1tect/minisocial/testutils"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db := testutils.SetupTestDB(t, &User{})
	hasher := password.NewHasher(testutils.GetTestConfig().Auth, nil)
	return NewService(db, hasher, nil)
}

func ptr[T any](v T) *T {
	return &v
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("stores hashed password and defaults to active", func(t *testing.T) {
		service := setupService(t)

		user, err := service.Register(ctx, RegisterInput{
			Username: "alice",
			Password: "correcthorse123",
			FullName: ptr("Alice Liddell"),
		})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "correcthorse123", user.PasswordHash)
		assert.True(t, service.hasher.Verify("correcthorse123", user.PasswordHash))

		stored, err := service.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, stored.ID)
		require.NotNil(t, stored.FullName)
		assert.Equal(t, "Alice Liddell", *stored.FullName)
	})

	t.Run("explicit inactive", func(t *testing.T) {
		service := setupService(t)

		user, err := service.Register(ctx, RegisterInput{Username: "bob", Password: "correcthorse123", IsActive: ptr(false)})

		require.NoError(t, err)
		stored, err := service.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive)
	})

	t.Run("duplicate username", func(t *testing.T) {
		service := setupService(t)

		_, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correcthorse123"})
		require.NoError(t, err)

		_, err = service.Register(ctx, RegisterInput{Username: "alice", Password: "anotherpass123"})
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("password policy", func(t *testing.T) {
		service := setupService(t)

		_, err := service.Register(ctx, RegisterInput{Username: "alice", Password: testutils.TestPasswords.TooShort})
		assert.ErrorIs(t, err, password.ErrPasswordTooShort)

		_, err = service.Register(ctx, RegisterInput{Username: "alice", Password: testutils.TestPasswords.TooLong})
		assert.ErrorIs(t, err, password.ErrPasswordTooLong)

		_, err = service.Register(ctx, RegisterInput{Username: "carol", Password: strings.Repeat("é", 40)})
		assert.ErrorIs(t, err, password.ErrPasswordTooLong)
	})

	t.Run("username bounds", func(t *testing.T) {
		service := setupService(t)

		_, err := service.Register(ctx, RegisterInput{Username: "   ", Password: "correcthorse123"})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = service.Register(ctx, RegisterInput{Username: "abcdefghijklmnopqrstu", Password: "correcthorse123"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_Lookup(t *testing.T) {
	ctx := context.Background()
	service := setupService(t)

	_, err := service.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	service := setupService(t)

	for i := range 5 {
		_, err := service.Register(ctx, RegisterInput{Username: fmt.Sprintf("user%d", i), Password: "correcthorse123"})
		require.NoError(t, err)
	}

	all, err := service.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	page, err := service.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	past, err := service.List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, past)
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		offset, limit         int
		wantOffset, wantLimit int
	}{
		{0, 0, 0, DefaultPageSize},
		{-5, 10, 0, 10},
		{3, 500, 3, MaxPageSize},
		{7, 1, 7, 1},
	}

	for _, tt := range tests {
		offset, limit := NormalizePage(tt.offset, tt.limit)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update leaves other fields", func(t *testing.T) {
		service := setupService(t)
		user, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correcthorse123", FullName: ptr("Alice")})
		require.NoError(t, err)

		updated, err := service.UpdateSelf(ctx, user.ID, user.ID, UpdateInput{IsActive: ptr(false)})

		require.NoError(t, err)
		assert.Equal(t, "alice", updated.Username)
		require.NotNil(t, updated.FullName)
		assert.Equal(t, "Alice", *updated.FullName)
		assert.False(t, updated.IsActive)
	})

	t.Run("rename onto existing username", func(t *testing.T) {
		service := setupService(t)
		_, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correcthorse123"})
		require.NoError(t, err)
		bob, err := service.Register(ctx, RegisterInput{Username: "bob", Password: "correcthorse123"})
		require.NoError(t, err)

		_, err = service.UpdateSelf(ctx, bob.ID, bob.ID, UpdateInput{Username: ptr("alice")})

		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		service := setupService(t)
		alice, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correcthorse123"})
		require.NoError(t, err)
		bob, err := service.Register(ctx, RegisterInput{Username: "bob", Password: "correcthorse123"})
		require.NoError(t, err)

		_, err = service.UpdateSelf(ctx, bob.ID, alice.ID, UpdateInput{FullName: ptr("Mallory")})
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = service.UpdateSelf(ctx, bob.ID, uuid.New(), UpdateInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	service := setupService(t)

	alice, err := service.Register(ctx, RegisterInput{Username: "alice", Password: "correcthorse123"})
	require.NoError(t, err)
	bob, err := service.Register(ctx, RegisterInput{Username: "bob", Password: "correcthorse123"})
	require.NoError(t, err)

	assert.ErrorIs(t, service.DeleteSelf(ctx, bob.ID, alice.ID), ErrForbidden)

	require.NoError(t, service.DeleteSelf(ctx, alice.ID, alice.ID))
	_, err = service.GetByID(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, service.Delete(ctx, alice.ID), ErrNotFound)
}

func TestService_StorageUnavailable(t *testing.T) {
	db, mock := testutils.SetupMockDB(t)
	service := NewService(db, password.NewHasher(testutils.GetTestConfig().Auth, nil), nil)

	driverErr := errors.New("connection refused")
	mock.ExpectQuery("SELECT").WillReturnError(driverErr)

	_, err := service.GetByUsername(context.Background(), "alice")

	assert.ErrorIs(t, err, autherr.ErrStorageUnavailable)
	assert.ErrorIs(t, err, driverErr)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
