package httpapi

import (
	"net/http"
	"time"

	"agent_academy/internal/middleware"
	"agent_academy/internal/utils"
)

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth reports liveness plus database reachability. A failing
// database check degrades the status instead of failing the endpoint; load
// balancers want an answer either way.
func (d *Dependencies) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := d.db.Health(r.Context()); err != nil {
		d.logger.Warn("Health check found database unreachable", "error", err)
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	utils.RespondWithJSON(w, code, healthResponse{
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
}

type monthlySpendResponse struct {
	MonthToDateUSD float64 `json:"month_to_date_usd"`
}

// handleMonthlySpend returns the caller's month-to-date model spend.
// Anonymous callers have no accumulated spend and get zero.
func (d *Dependencies) handleMonthlySpend(w http.ResponseWriter, r *http.Request) {
	spend, err := d.Billing.MonthlySpend(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		d.logger.Error("Failed to read monthly spend", "error", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to read spend")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, monthlySpendResponse{MonthToDateUSD: spend})
}
