// Package billing tracks what each signed-in user has spent on model calls.
// It is informational accounting for the UI's cost dashboards, not budget
// enforcement: nothing here ever blocks a request.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Tracker accumulates per-user model spend.
type Tracker interface {
	// AddUsage adds costUSD to the user's running total for the current
	// month.
	AddUsage(ctx context.Context, userID string, costUSD float64) error

	// MonthlySpend returns the user's month-to-date spend in USD.
	MonthlySpend(ctx context.Context, userID string) (float64, error)
}

// NoopTracker discards usage. Used when Redis is unavailable.
type NoopTracker struct{}

func NewNoopTracker() *NoopTracker {
	return &NoopTracker{}
}

func (t *NoopTracker) AddUsage(ctx context.Context, userID string, costUSD float64) error {
	return nil
}

func (t *NoopTracker) MonthlySpend(ctx context.Context, userID string) (float64, error) {
	return 0, nil
}

// RedisTracker keeps one counter per user per calendar month. Keys expire
// after ~40 days so stale months clean themselves up.
type RedisTracker struct {
	client *redis.Client
}

func NewRedisTracker(client *redis.Client) *RedisTracker {
	return &RedisTracker{client: client}
}

const spendKeyTTL = 40 * 24 * time.Hour

func (t *RedisTracker) AddUsage(ctx context.Context, userID string, costUSD float64) error {
	if userID == "" || costUSD <= 0 {
		return nil
	}

	key := t.monthlyKey(userID, time.Now())

	pipe := t.client.Pipeline()
	pipe.IncrByFloat(ctx, key, costUSD)
	pipe.Expire(ctx, key, spendKeyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record spend: %w", err)
	}
	return nil
}

func (t *RedisTracker) MonthlySpend(ctx context.Context, userID string) (float64, error) {
	if userID == "" {
		return 0, nil
	}

	key := t.monthlyKey(userID, time.Now())
	spend, err := t.client.Get(ctx, key).Float64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read spend: %w", err)
	}
	return spend, nil
}

func (t *RedisTracker) monthlyKey(userID string, now time.Time) string {
	return fmt.Sprintf("academy:spend:%s:%04d-%02d", userID, now.Year(), int(now.Month()))
}
