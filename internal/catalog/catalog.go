package catalog

import (
	"fmt"
	"sort"

	"agent_academy/internal/models"
)

// Criterion selects the ordering used by Compare.
type Criterion string

const (
	ByCost        Criterion = "cost"
	ByPerformance Criterion = "performance"
	BySpeed       Criterion = "speed"
)

// Catalog is the fixed set of model descriptors the rest of the system reasons
// about. It is built once at startup and read-only thereafter, so concurrent
// reads need no synchronization.
type Catalog struct {
	entries []models.ModelDescriptor
	byID    map[string]int
}

// New builds a catalog from descriptors and validates it. Validation failures
// here are configuration errors: duplicate or empty ids, negative prices,
// non-positive token limits, or a recommendation table entry that references a
// model the catalog does not carry. Callers are expected to treat an error as
// fatal at startup.
func New(descriptors []models.ModelDescriptor) (*Catalog, error) {
	c := &Catalog{
		entries: make([]models.ModelDescriptor, len(descriptors)),
		byID:    make(map[string]int, len(descriptors)),
	}
	copy(c.entries, descriptors)

	for i, d := range c.entries {
		if d.ID == "" {
			return nil, fmt.Errorf("catalog entry %d has an empty id", i)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", d.ID)
		}
		if d.CostPer1KTokens < 0 {
			return nil, fmt.Errorf("model %q has negative cost per 1k tokens", d.ID)
		}
		if d.MaxTokens <= 0 {
			return nil, fmt.Errorf("model %q has non-positive max tokens", d.ID)
		}
		c.byID[d.ID] = i
	}

	// Every id the recommendation table can return must resolve.
	for _, id := range recommendedIDs() {
		if _, ok := c.byID[id]; !ok {
			return nil, fmt.Errorf("recommendation table references unknown model %q", id)
		}
	}

	return c, nil
}

// Default returns the shipped catalog. The table is a process-wide constant;
// a validation failure here means the table itself is broken, so panic.
func Default() *Catalog {
	c, err := New(defaultDescriptors)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid default table: %v", err))
	}
	return c
}

// Lookup returns the descriptor for id. A false return is a caller error
// (unknown model), not a system fault.
func (c *Catalog) Lookup(id string) (models.ModelDescriptor, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.ModelDescriptor{}, false
	}
	return c.entries[i], true
}

// List returns a copy of all descriptors in catalog order.
func (c *Catalog) List() []models.ModelDescriptor {
	out := make([]models.ModelDescriptor, len(c.entries))
	copy(out, c.entries)
	return out
}

// CalculateCost computes the monetary cost of an invocation from the
// provider's reported token counts:
//
//	((inputTokens + outputTokens) / 1000) * costPer1kTokens
//
// Pure and total over non-negative inputs; no rounding is applied.
func CalculateCost(inputTokens, outputTokens int, m models.ModelDescriptor) float64 {
	totalTokens := inputTokens + outputTokens
	return (float64(totalTokens) / 1000.0) * m.CostPer1KTokens
}

// Compare returns a new slice of descriptors stably sorted by criterion.
// "cost" and "speed" sort ascending by price (smaller models are faster);
// "performance" sorts descending, treating higher price as a proxy for higher
// capability. That is an acknowledged heuristic, not a measured benchmark.
// The input slice is never mutated; an unknown criterion returns an unsorted
// copy.
func Compare(descriptors []models.ModelDescriptor, criterion Criterion) []models.ModelDescriptor {
	out := make([]models.ModelDescriptor, len(descriptors))
	copy(out, descriptors)

	switch criterion {
	case ByCost, BySpeed:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CostPer1KTokens < out[j].CostPer1KTokens
		})
	case ByPerformance:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CostPer1KTokens > out[j].CostPer1KTokens
		})
	}

	return out
}

// defaultDescriptors is the shipped model table. Prices are the providers'
// list prices per 1K combined tokens.
var defaultDescriptors = []models.ModelDescriptor{
	{
		ID:              "claude-3-5-sonnet-20241022",
		Name:            "Claude 3.5 Sonnet",
		Provider:        models.ProviderAnthropic,
		CostPer1KTokens: 0.003,
		Strengths:       []string{"Reasoning", "Code", "Analysis", "Safety"},
		BestFor:         []string{"Complex reasoning", "Code generation", "Educational content"},
		MaxTokens:       200000,
		SupportsImages:  true,
		SupportsCode:    true,
	},
	{
		ID:              "claude-3-haiku-20240307",
		Name:            "Claude 3 Haiku",
		Provider:        models.ProviderAnthropic,
		CostPer1KTokens: 0.00025,
		Strengths:       []string{"Speed", "Efficiency", "Basic tasks"},
		BestFor:         []string{"Quick responses", "Simple analysis", "Cost-sensitive applications"},
		MaxTokens:       200000,
		SupportsImages:  true,
		SupportsCode:    true,
	},
	{
		ID:              "qwen2.5-72b-instruct",
		Name:            "Qwen2.5 72B Instruct",
		Provider:        models.ProviderQwen,
		CostPer1KTokens: 0.0008,
		Strengths:       []string{"Multilingual", "Cost-effective", "Reasoning", "Code"},
		BestFor:         []string{"Budget-conscious projects", "Multilingual content", "General tasks"},
		MaxTokens:       32768,
		SupportsCode:    true,
	},
	{
		ID:              "qwen2.5-32b-instruct",
		Name:            "Qwen2.5 32B Instruct",
		Provider:        models.ProviderQwen,
		CostPer1KTokens: 0.0004,
		Strengths:       []string{"Very cost-effective", "Good reasoning", "Fast"},
		BestFor:         []string{"High-volume applications", "Educational exercises", "Prototyping"},
		MaxTokens:       32768,
		SupportsCode:    true,
	},
	{
		ID:              "qwen2.5-14b-instruct",
		Name:            "Qwen2.5 14B Instruct",
		Provider:        models.ProviderQwen,
		CostPer1KTokens: 0.0002,
		Strengths:       []string{"Ultra cost-effective", "Decent performance", "Very fast"},
		BestFor:         []string{"Learning exercises", "Simple tasks", "Experimentation"},
		MaxTokens:       32768,
		SupportsCode:    true,
	},
	{
		ID:              "gpt-4o",
		Name:            "GPT-4o",
		Provider:        models.ProviderOpenAI,
		CostPer1KTokens: 0.005,
		Strengths:       []string{"Multimodal", "Reasoning", "Creativity"},
		BestFor:         []string{"Complex tasks", "Creative writing", "Image analysis"},
		MaxTokens:       128000,
		SupportsImages:  true,
		SupportsCode:    true,
	},
	{
		ID:              "gpt-4o-mini",
		Name:            "GPT-4o Mini",
		Provider:        models.ProviderOpenAI,
		CostPer1KTokens: 0.00015,
		Strengths:       []string{"Cost-effective", "Fast", "Good reasoning"},
		BestFor:         []string{"Simple tasks", "High-volume applications", "Learning"},
		MaxTokens:       128000,
		SupportsImages:  true,
		SupportsCode:    true,
	},
}
