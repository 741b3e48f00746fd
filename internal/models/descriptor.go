package models

//
// ModelDescriptor (static catalog entry)
//

// ProviderName identifies the upstream vendor a model is served by.
type ProviderName string

const (
	ProviderAnthropic   ProviderName = "anthropic"
	ProviderOpenAI      ProviderName = "openai"
	ProviderQwen        ProviderName = "qwen"
	ProviderHuggingFace ProviderName = "huggingface"
)

// ModelDescriptor describes one callable backend language model: its stable id,
// list price per 1K tokens, and capability tags. Descriptors are defined once in
// the catalog and never mutated at runtime.
type ModelDescriptor struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Provider        ProviderName `json:"provider"`
	CostPer1KTokens float64      `json:"cost_per_1k_tokens"`
	Strengths       []string     `json:"strengths"`
	BestFor         []string     `json:"best_for"`
	MaxTokens       int          `json:"max_tokens"`
	SupportsImages  bool         `json:"supports_images,omitempty"`
	SupportsCode    bool         `json:"supports_code,omitempty"`
}
