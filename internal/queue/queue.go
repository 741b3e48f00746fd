// Package queue provides the async pipeline for usage recording with two
// backends:
//
//  1. Memory queue (channel-based): no persistence, zero external
//     dependencies, fine for standalone deployments.
//  2. Redis queue (list-based): survives restarts and supports multiple
//     workers.
//
// Delivery is at most once: a record that cannot be enqueued or whose batch
// insert fails is logged and dropped, never retried. Usage records are an
// audit convenience, not billing-grade data.
package queue

import (
	"context"
	"time"
)

// Queue defines the interface for message queuing
type Queue interface {
	// Enqueue adds an item to the queue
	Enqueue(ctx context.Context, item interface{}) error

	// DequeueWithTimeout retrieves up to maxItems, waiting at most timeout
	// for the first item. Returns an empty slice when nothing arrived.
	DequeueWithTimeout(ctx context.Context, maxItems int, timeout time.Duration) ([]interface{}, error)

	// Length returns the current queue length
	Length(ctx context.Context) (int, error)

	// Close shuts down the queue gracefully
	Close() error
}

// Config holds queue configuration
type Config struct {
	// BatchSize is the maximum number of items to process in a batch
	BatchSize int

	// BatchTimeout is how long to wait before processing a partial batch
	BatchTimeout time.Duration

	// QueueName is the name/key for the queue
	QueueName string
}

// DefaultConfig returns default queue configuration
func DefaultConfig(queueName string) *Config {
	return &Config{
		BatchSize:    100,
		BatchTimeout: 5 * time.Second,
		QueueName:    queueName,
	}
}
