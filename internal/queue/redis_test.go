package queue

import (
	"context"
	"encoding/json"
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

func TestRedisQueue_EnqueueDequeue(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q, err := NewRedisQueue(client, DefaultConfig("test"))
	require.NoError(t, err)
	defer q.Close()

	ctx := context.Background()

	type payload struct {
		Model string  `json:"model"`
		Cost  float64 `json:"cost"`
	}

	require.NoError(t, q.Enqueue(ctx, payload{Model: "gpt-4o-mini", Cost: 0.001}))
	require.NoError(t, q.Enqueue(ctx, payload{Model: "gpt-4o", Cost: 0.02}))

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, length)

	items, err := q.DequeueWithTimeout(ctx, 10, time.Second)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Redis items come back as raw JSON for the worker to unmarshal.
	var first payload
	raw, ok := items[0].(json.RawMessage)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(raw, &first))
	assert.Equal(t, "gpt-4o-mini", first.Model)
	assert.Equal(t, 0.001, first.Cost)

	length, err = q.Length(ctx)
	require.NoError(t, err)
	assert.Zero(t, length)
}

func TestRedisQueue_DequeueTimeout(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q, err := NewRedisQueue(client, DefaultConfig("test"))
	require.NoError(t, err)
	defer q.Close()

	items, err := q.DequeueWithTimeout(context.Background(), 10, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRedisQueue_RequiresConfig(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	_, err := NewRedisQueue(client, nil)
	assert.Error(t, err)
}

func TestRedisQueue_FailsWhenRedisUnreachable(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()
	mr.Close()

	_, err := NewRedisQueue(client, DefaultConfig("test"))
	assert.Error(t, err)
}
