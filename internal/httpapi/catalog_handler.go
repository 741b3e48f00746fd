package httpapi

import (
	"fmt"
	"net/http"

	"agent_academy/internal/catalog"
	"agent_academy/internal/models"
	"agent_academy/internal/utils"
)

type listModelsResponse struct {
	Models   []models.ModelDescriptor `json:"models"`
	UseCases []catalog.UseCase        `json:"use_cases"`
	Budgets  []catalog.Budget         `json:"budgets"`
}

// handleListModels returns the catalog, optionally ordered by ?sort=cost,
// speed or performance. No sort parameter returns catalog order.
func (d *Dependencies) handleListModels(w http.ResponseWriter, r *http.Request) {
	entries := d.Catalog.List()

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		criterion := catalog.Criterion(sortBy)
		switch criterion {
		case catalog.ByCost, catalog.BySpeed, catalog.ByPerformance:
			entries = catalog.Compare(entries, criterion)
		default:
			utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("unknown sort criterion %q", sortBy))
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, listModelsResponse{
		Models:   entries,
		UseCases: catalog.UseCases(),
		Budgets:  catalog.Budgets(),
	})
}

type recommendResponse struct {
	Model   models.ModelDescriptor `json:"model"`
	UseCase catalog.UseCase        `json:"use_case"`
	Budget  catalog.Budget         `json:"budget"`
}

// handleRecommend resolves ?use_case=&budget= through the decision table.
func (d *Dependencies) handleRecommend(w http.ResponseWriter, r *http.Request) {
	useCase := catalog.UseCase(r.URL.Query().Get("use_case"))
	budget := catalog.Budget(r.URL.Query().Get("budget"))

	desc, err := d.Catalog.Recommend(useCase, budget)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, recommendResponse{
		Model:   desc,
		UseCase: useCase,
		Budget:  budget,
	})
}
