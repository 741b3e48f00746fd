package httpapi

import (
	"encoding/json"
	"net/http"

	"agent_academy/internal/middleware"
	"agent_academy/internal/models"
	"agent_academy/internal/progress"
	"agent_academy/internal/utils"
)

// Progress endpoints never reject anonymous callers: without an identity,
// writes are no-ops and reads return empty. That contract lives in the
// tracker, so the handlers just pass through whatever identity the request
// carried.

type saveProgressResponse struct {
	Success bool `json:"success"`
}

func (d *Dependencies) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	var data progress.Data
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := d.validate.Struct(data); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "exercise_id is required and score must be 0-100")
		return
	}

	d.Progress.SaveProgress(r.Context(), middleware.UserID(r.Context()), data)
	utils.RespondWithJSON(w, http.StatusOK, saveProgressResponse{Success: true})
}

func (d *Dependencies) handleGetAllProgress(w http.ResponseWriter, r *http.Request) {
	entries := d.Progress.GetAllProgress(r.Context(), middleware.UserID(r.Context()))
	if entries == nil {
		entries = []models.ProgressEntry{}
	}
	utils.RespondWithJSON(w, http.StatusOK, entries)
}

func (d *Dependencies) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	exerciseID := r.PathValue("id")
	entry := d.Progress.GetProgress(r.Context(), middleware.UserID(r.Context()), exerciseID)
	if entry == nil {
		utils.RespondWithError(w, http.StatusNotFound, "no progress recorded for exercise")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entry)
}

func (d *Dependencies) handleCompletedExercises(w http.ResponseWriter, r *http.Request) {
	completed := d.Progress.GetCompletedExercises(r.Context(), middleware.UserID(r.Context()))
	if completed == nil {
		completed = []string{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"completed": completed})
}

func (d *Dependencies) handleIncrementAttempts(w http.ResponseWriter, r *http.Request) {
	exerciseID := r.PathValue("id")
	d.Progress.IncrementAttempts(r.Context(), middleware.UserID(r.Context()), exerciseID)
	utils.RespondWithJSON(w, http.StatusOK, saveProgressResponse{Success: true})
}

func (d *Dependencies) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile := d.Progress.GetProfile(r.Context(), middleware.UserID(r.Context()))
	if profile == nil {
		utils.RespondWithError(w, http.StatusNotFound, "no profile recorded")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, profile)
}
