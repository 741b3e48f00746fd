package providers

import (
	"context"
	"fmt"

	"agent_academy/internal/models"
)

// simulationFallbackModel is the cheap Anthropic model used to stand in for
// providers that have no direct integration yet.
const simulationFallbackModel = "claude-3-haiku-20240307"

// SimulatedProvider serves a provider's catalog entries by routing through the
// Anthropic fallback model and prefixing the reply so callers can tell the
// response is simulated. Cost is still computed for the requested model, not
// the fallback, because the caller asked for (and is shown) the requested
// model's pricing.
type SimulatedProvider struct {
	name     models.ProviderName
	upstream *AnthropicProvider
}

// NewSimulatedProvider wraps the Anthropic provider for a provider without a
// real integration (currently qwen and openai).
func NewSimulatedProvider(name models.ProviderName, upstream *AnthropicProvider) *SimulatedProvider {
	return &SimulatedProvider{name: name, upstream: upstream}
}

func (p *SimulatedProvider) Name() models.ProviderName {
	return p.name
}

func (p *SimulatedProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	requested := req.Model
	req.Model = simulationFallbackModel

	resp, err := p.upstream.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	resp.Content = fmt.Sprintf("[Simulating %s] %s", requested, resp.Content)
	return resp, nil
}

func (p *SimulatedProvider) Close() error {
	// The wrapped Anthropic provider is shared and closed by its owner.
	return nil
}
