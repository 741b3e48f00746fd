package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestNoopLimiter(t *testing.T) {
	limiter := NewNoopLimiter()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow(ctx, "any-key"))
	}
}

func TestRedisLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		defer mr.Close()
		defer client.Close()

		limiter := NewRedisLimiter(client, 5)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow(ctx, "user-1"), "request %d should be allowed", i+1)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		defer mr.Close()
		defer client.Close()

		limiter := NewRedisLimiter(client, 3)
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow(ctx, "user-2"))
		}
		assert.False(t, limiter.Allow(ctx, "user-2"))
	})

	t.Run("keys are isolated", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		defer mr.Close()
		defer client.Close()

		limiter := NewRedisLimiter(client, 1)
		ctx := context.Background()

		assert.True(t, limiter.Allow(ctx, "user-a"))
		assert.False(t, limiter.Allow(ctx, "user-a"))
		assert.True(t, limiter.Allow(ctx, "user-b"))
	})

	t.Run("window slides", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		defer mr.Close()
		defer client.Close()

		limiter := NewRedisLimiter(client, 2)
		ctx := context.Background()

		assert.True(t, limiter.Allow(ctx, "user-3"))
		assert.True(t, limiter.Allow(ctx, "user-3"))
		assert.False(t, limiter.Allow(ctx, "user-3"))

		// miniredis only moves its TTL clock by hand; jump past the key's
		// expiry so the whole window ages out.
		mr.FastForward(121 * time.Second)
		assert.True(t, limiter.Allow(ctx, "user-3"))
	})

	t.Run("zero limit disables limiting", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		defer mr.Close()
		defer client.Close()

		limiter := NewRedisLimiter(client, 0)
		ctx := context.Background()

		for i := 0; i < 50; i++ {
			assert.True(t, limiter.Allow(ctx, "user-4"))
		}
	})

	t.Run("allows on redis failure", func(t *testing.T) {
		client, mr := setupTestRedis(t)
		defer client.Close()
		mr.Close()

		limiter := NewRedisLimiter(client, 1)
		assert.True(t, limiter.Allow(context.Background(), "user-5"))
	})
}
