package models

import (
	"time"

	"github.com/google/uuid"
)

// UsageRecord is the audit row written for one model invocation.
// TotalCostUSD is always derived server-side from the provider's reported
// token counts, never trusted from the client.
type UsageRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	RequestID      uuid.UUID `db:"request_id" json:"request_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	ModelID        string    `db:"model_id" json:"model_id"`
	Provider       string    `db:"provider" json:"provider"`
	InputTokens    int       `db:"input_tokens" json:"input_tokens"`
	OutputTokens   int       `db:"output_tokens" json:"output_tokens"`
	TotalCostUSD   float64   `db:"total_cost_usd" json:"total_cost_usd"`
	ResponseTimeMS int       `db:"response_time_ms" json:"response_time_ms"`
	StatusCode     int       `db:"status_code" json:"status_code"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
