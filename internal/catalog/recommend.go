package catalog

import (
	"fmt"

	"agent_academy/internal/models"
)

// UseCase is the kind of project a model is being selected for.
type UseCase string

const (
	UseCaseEducation       UseCase = "education"
	UseCasePrototyping     UseCase = "prototyping"
	UseCaseProduction      UseCase = "production"
	UseCaseExperimentation UseCase = "experimentation"
)

// Budget is the caller's cost tolerance.
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// UseCases lists the recommendation domain in a stable order.
func UseCases() []UseCase {
	return []UseCase{UseCaseEducation, UseCasePrototyping, UseCaseProduction, UseCaseExperimentation}
}

// Budgets lists the budget domain in a stable order.
func Budgets() []Budget {
	return []Budget{BudgetLow, BudgetMedium, BudgetHigh}
}

// Recommend resolves a (useCase, budget) pair to exactly one catalog entry via
// a fixed decision table. It is total over the defined domain: catalog
// validation guarantees every id the table can return is present, so the only
// error is an out-of-domain argument.
func (c *Catalog) Recommend(useCase UseCase, budget Budget) (models.ModelDescriptor, error) {
	if !validUseCase(useCase) {
		return models.ModelDescriptor{}, fmt.Errorf("unknown use case %q", useCase)
	}

	var id string
	switch budget {
	case BudgetLow:
		if useCase == UseCaseEducation || useCase == UseCaseExperimentation {
			id = "qwen2.5-14b-instruct"
		} else {
			id = "qwen2.5-32b-instruct"
		}
	case BudgetMedium:
		if useCase == UseCaseEducation {
			id = "qwen2.5-72b-instruct"
		} else {
			id = "gpt-4o-mini"
		}
	case BudgetHigh:
		if useCase == UseCaseProduction {
			id = "claude-3-5-sonnet-20241022"
		} else {
			id = "gpt-4o"
		}
	default:
		return models.ModelDescriptor{}, fmt.Errorf("unknown budget %q", budget)
	}

	desc, ok := c.Lookup(id)
	if !ok {
		// Unreachable after New's validation; kept as a loud failure rather
		// than a silent zero value.
		return models.ModelDescriptor{}, fmt.Errorf("recommended model %q missing from catalog", id)
	}
	return desc, nil
}

func validUseCase(u UseCase) bool {
	switch u {
	case UseCaseEducation, UseCasePrototyping, UseCaseProduction, UseCaseExperimentation:
		return true
	}
	return false
}

// recommendedIDs returns every model id the decision table can resolve to.
// New validates these against the catalog so a table/catalog mismatch fails at
// startup instead of surfacing as a missing value at request time.
func recommendedIDs() []string {
	return []string{
		"qwen2.5-14b-instruct",
		"qwen2.5-32b-instruct",
		"qwen2.5-72b-instruct",
		"gpt-4o-mini",
		"claude-3-5-sonnet-20241022",
		"gpt-4o",
	}
}
