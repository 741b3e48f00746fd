package providers

import (
	"agent_academy/internal/models"
)

// Registry maps provider names to dispatchable Provider instances. A name
// with no entry (for example "huggingface", which appears in the descriptor
// domain but has no integration) is a caller error the gateway reports by
// naming the provider.
type Registry struct {
	providers map[models.ProviderName]Provider
}

// NewRegistry registers each provider under its own name.
func NewRegistry(ps ...Provider) *Registry {
	r := &Registry{providers: make(map[models.ProviderName]Provider, len(ps))}
	for _, p := range ps {
		r.providers[p.Name()] = p
	}
	return r
}

// NewDefaultRegistry wires the shipped dispatch table: a real Anthropic
// integration plus simulated qwen and openai paths through the same client.
func NewDefaultRegistry(cfg AnthropicConfig) *Registry {
	anthropic := NewAnthropicProvider(cfg)
	return NewRegistry(
		anthropic,
		NewSimulatedProvider(models.ProviderQwen, anthropic),
		NewSimulatedProvider(models.ProviderOpenAI, anthropic),
	)
}

// Get returns the provider registered for name.
func (r *Registry) Get(name models.ProviderName) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Close closes every registered provider.
func (r *Registry) Close() error {
	var firstErr error
	for _, p := range r.providers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
