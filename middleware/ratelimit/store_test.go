package ratelimit

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		store := NewMemoryStore(time.Hour)
		defer store.Close()

		count, resetTime, exists, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Zero(t, count)
		assert.True(t, resetTime.IsZero())
	})

	t.Run("increment within window", func(t *testing.T) {
		store := NewMemoryStore(time.Hour)
		defer store.Close()

		count, first, err := store.Increment(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		count, second, err := store.Increment(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, first, second)

		got, _, exists, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, 2, got)
	})

	t.Run("window expiry starts over", func(t *testing.T) {
		store := NewMemoryStore(time.Hour)
		defer store.Close()

		_, _, err := store.Increment(ctx, "k", 20*time.Millisecond)
		require.NoError(t, err)
		time.Sleep(40 * time.Millisecond)

		_, _, exists, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, exists)

		count, _, err := store.Increment(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("reset", func(t *testing.T) {
		store := NewMemoryStore(time.Hour)
		defer store.Close()

		_, _, err := store.Increment(ctx, "k", time.Minute)
		require.NoError(t, err)
		require.NoError(t, store.Reset(ctx, "k"))

		_, _, exists, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("purge drops finished windows", func(t *testing.T) {
		store := NewMemoryStore(time.Hour)
		defer store.Close()

		_, _, err := store.Increment(ctx, "short", time.Millisecond)
		require.NoError(t, err)
		_, _, err = store.Increment(ctx, "long", time.Hour)
		require.NoError(t, err)

		store.purge(time.Now().Add(time.Second))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("janitor runs until closed", func(t *testing.T) {
		store := NewMemoryStore(10 * time.Millisecond)

		_, _, err := store.Increment(ctx, "k", time.Millisecond)
		require.NoError(t, err)

		assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})

	t.Run("concurrent increments", func(t *testing.T) {
		store := NewMemoryStore(time.Hour)
		defer store.Close()

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, _ = store.Increment(ctx, "k", time.Minute)
			}()
		}
		wg.Wait()

		count, _, _, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 50, count)
	})
}

func setupRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}

	store := NewRedisStore(client)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store := setupRedisStore(t)
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { store.Reset(ctx, key) })

	_, _, exists, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	count, resetTime, err := store.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.WithinDuration(t, time.Now().Add(time.Minute), resetTime, 2*time.Second)

	count, _, err = store.Increment(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, _, exists, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 2, got)

	require.NoError(t, store.Reset(ctx, key))
	_, _, exists, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisStore_WindowExpires(t *testing.T) {
	ctx := context.Background()
	store := setupRedisStore(t)
	key := "test:" + uuid.NewString()

	_, _, err := store.Increment(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, _, exists, err := store.Get(ctx, key)
		return err == nil && !exists
	}, time.Second, 20*time.Millisecond)
}
