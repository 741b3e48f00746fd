package storage

import (
	"context"
	"fmt"

	"agent_academy/internal/models"
)

// UsageRepository persists usage records.
type UsageRepository struct {
	db *DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

const insertUsageQuery = `
	INSERT INTO usage_records (
		id, request_id, user_id, model_id, provider,
		input_tokens, output_tokens, total_cost_usd,
		response_time_ms, status_code, created_at
	) VALUES (
		:id, :request_id, :user_id, :model_id, :provider,
		:input_tokens, :output_tokens, :total_cost_usd,
		:response_time_ms, :status_code, :created_at
	)
`

// Insert writes a single usage record.
func (r *UsageRepository) Insert(ctx context.Context, record *models.UsageRecord) error {
	if _, err := r.db.conn.NamedExecContext(ctx, insertUsageQuery, record); err != nil {
		return fmt.Errorf("failed to insert usage record: %w", err)
	}
	return nil
}

// InsertBatch writes a batch of usage records in one transaction.
func (r *UsageRepository) InsertBatch(ctx context.Context, records []*models.UsageRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		if _, err := tx.NamedExecContext(ctx, insertUsageQuery, record); err != nil {
			return fmt.Errorf("failed to insert usage record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit usage batch: %w", err)
	}
	return nil
}
