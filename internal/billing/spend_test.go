package billing

import (
	"context"
	"testing"

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

func TestNoopTracker(t *testing.T) {
	tracker := NewNoopTracker()
	ctx := context.Background()

	require.NoError(t, tracker.AddUsage(ctx, "u1", 1.5))

	spend, err := tracker.MonthlySpend(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, spend)
}

func TestRedisTracker_Accumulates(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	tracker := NewRedisTracker(client)
	ctx := context.Background()

	require.NoError(t, tracker.AddUsage(ctx, "u1", 0.00135))
	require.NoError(t, tracker.AddUsage(ctx, "u1", 0.005))

	spend, err := tracker.MonthlySpend(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 0.00635, spend, 1e-9)
}

func TestRedisTracker_UnknownUserIsZero(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	tracker := NewRedisTracker(client)

	spend, err := tracker.MonthlySpend(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Zero(t, spend)
}

func TestRedisTracker_IgnoresAnonymousAndFreeCalls(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	tracker := NewRedisTracker(client)
	ctx := context.Background()

	require.NoError(t, tracker.AddUsage(ctx, "", 0.5))
	require.NoError(t, tracker.AddUsage(ctx, "u1", 0))

	assert.Empty(t, mr.Keys())

	spend, err := tracker.MonthlySpend(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, spend)
}

func TestRedisTracker_UsersAreIsolated(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	tracker := NewRedisTracker(client)
	ctx := context.Background()

	require.NoError(t, tracker.AddUsage(ctx, "u1", 1.0))
	require.NoError(t, tracker.AddUsage(ctx, "u2", 2.0))

	spend, err := tracker.MonthlySpend(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, spend)

	spend, err = tracker.MonthlySpend(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 2.0, spend)
}
