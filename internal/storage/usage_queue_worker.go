package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"agent_academy/internal/models"
	"agent_academy/internal/queue"
	"agent_academy/internal/utils"
)

// UsageInserter is the sink the worker drains batches into. Satisfied by
// *UsageRepository; tests substitute a fake.
type UsageInserter interface {
	InsertBatch(ctx context.Context, records []*models.UsageRecord) error
}

// UsageQueueWorker drains the usage queue and batch-inserts records. A batch
// that fails to insert is logged and dropped: usage recording is at most
// once and must never fail or delay a request.
type UsageQueueWorker struct {
	queue       queue.Queue
	sink        UsageInserter
	config      *queue.Config
	stopChan    chan struct{}
	stoppedChan chan struct{}
}

// NewUsageQueueWorker creates a new usage queue worker
func NewUsageQueueWorker(q queue.Queue, sink UsageInserter, config *queue.Config) *UsageQueueWorker {
	if config == nil {
		config = queue.DefaultConfig("usage")
	}

	return &UsageQueueWorker{
		queue:       q,
		sink:        sink,
		config:      config,
		stopChan:    make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

// Start starts the worker goroutine
func (w *UsageQueueWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *UsageQueueWorker) Stop() error {
	close(w.stopChan)
	<-w.stoppedChan
	return nil
}

// Enqueue adds a usage record to the queue
func (w *UsageQueueWorker) Enqueue(ctx context.Context, record *models.UsageRecord) error {
	return w.queue.Enqueue(ctx, record)
}

// run is the main worker loop
func (w *UsageQueueWorker) run(ctx context.Context) {
	defer close(w.stoppedChan)

	logger := utils.NewLogger("usage-worker")

	for {
		select {
		case <-w.stopChan:
			logger.Info("Usage worker stopping")
			return
		case <-ctx.Done():
			logger.Info("Usage worker context cancelled")
			return
		default:
			w.processBatch(ctx, logger)
		}
	}
}

// processBatch drains one batch from the queue and inserts it.
func (w *UsageQueueWorker) processBatch(ctx context.Context, logger *utils.Logger) {
	items, err := w.queue.DequeueWithTimeout(ctx, w.config.BatchSize, w.config.BatchTimeout)
	if err != nil {
		logger.Error("Failed to dequeue usage records", "error", err)
		time.Sleep(1 * time.Second) // back off on error
		return
	}

	if len(items) == 0 {
		return
	}

	records := make([]*models.UsageRecord, 0, len(items))
	for _, item := range items {
		record, err := w.unmarshalItem(item)
		if err != nil {
			logger.Error("Failed to unmarshal usage record", "error", err)
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return
	}

	if err := w.sink.InsertBatch(ctx, records); err != nil {
		// Dropped, per the at-most-once policy.
		logger.Error("Failed to insert usage batch", "count", len(records), "error", err)
		return
	}

	logger.Debug("Inserted usage batch", "count", len(records))
}

// unmarshalItem converts a queue item back to a usage record. The memory
// queue carries records directly; the Redis queue carries JSON.
func (w *UsageQueueWorker) unmarshalItem(item interface{}) (*models.UsageRecord, error) {
	switch v := item.(type) {
	case *models.UsageRecord:
		return v, nil
	case json.RawMessage:
		var record models.UsageRecord
		if err := json.Unmarshal(v, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal usage record: %w", err)
		}
		return &record, nil
	default:
		return nil, fmt.Errorf("unexpected queue item type %T", item)
	}
}
