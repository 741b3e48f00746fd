package providers

import (
	"context"
	"time"

	"agent_academy/internal/models"
)

// GenerateRequest is a normalized internal request to a provider.
type GenerateRequest struct {
	Model       string // provider-specific model name
	Prompt      string
	System      string
	MaxTokens   int
	Temperature float64
}

// GenerateResponse is a normalized provider reply. Token counts are whatever
// the upstream reported; cost is attached later by the gateway from the
// catalog entry, never by the provider itself.
type GenerateResponse struct {
	Content         string
	InputTokens     int
	OutputTokens    int
	ProviderLatency time.Duration
}

// Provider is implemented by each concrete upstream backend.
type Provider interface {
	// Name returns the provider this instance dispatches for.
	Name() models.ProviderName

	// Generate sends a single-turn completion request upstream.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Close releases any resources held by the provider.
	Close() error
}
