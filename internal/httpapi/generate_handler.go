package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"agent_academy/internal/catalog"
	"agent_academy/internal/logging"
	"agent_academy/internal/middleware"
	"agent_academy/internal/models"
	"agent_academy/internal/providers"
	"agent_academy/internal/utils"
)

// generateRequest is the body of POST /v1/generate.
type generateRequest struct {
	Model       string   `json:"model" validate:"required"`
	Prompt      string   `json:"prompt" validate:"required"`
	System      string   `json:"system,omitempty"`
	MaxTokens   int      `json:"maxTokens,omitempty" validate:"gte=0"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type usagePayload struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"`
}

type generateResponse struct {
	Content  string       `json:"content"`
	Usage    usagePayload `json:"usage"`
	Model    string       `json:"model"`
	Provider string       `json:"provider"`
}

const defaultTemperature = 0.7

// handleGenerate is the entry point for single-turn model invocations.
//
// Flow:
//  1. Decode + validate body
//  2. Rate limit
//  3. Resolve model in catalog
//  4. Resolve provider dispatch path
//  5. Call provider
//  6. Compute cost server-side, record usage async
//  7. Return normalized response
//
// Caller errors (bad body, unknown model, unimplemented provider) get the
// plain error envelope with a message naming the offender. Upstream failures
// get the degraded sentinel envelope so UI callers always have a consistent
// shape to destructure.
func (d *Dependencies) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := d.validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "model and prompt are required")
		return
	}

	limitKey := userID
	if limitKey == "" {
		limitKey = r.RemoteAddr
	}
	if !d.RateLimit.Allow(ctx, limitKey) {
		utils.RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	desc, ok := d.Catalog.Lookup(req.Model)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("model %s not supported", req.Model))
		return
	}

	provider, ok := d.Providers.Get(desc.Provider)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("provider %s not implemented", desc.Provider))
		return
	}

	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	requestID := uuid.New()
	resp, err := provider.Generate(ctx, providers.GenerateRequest{
		Model:       req.Model,
		Prompt:      req.Prompt,
		System:      req.System,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	})
	if err != nil {
		d.logger.Error("Provider call failed", "model", req.Model, "provider", desc.Provider, "error", err)
		d.logAttempt(logging.AttemptLog{
			RequestID: requestID.String(),
			UserID:    userID,
			Model:     req.Model,
			Provider:  string(desc.Provider),
			Status:    http.StatusInternalServerError,
			LatencyMS: time.Since(start).Milliseconds(),
			Error:     err.Error(),
		})
		utils.RespondWithUpstreamError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Cost is always computed here from the provider's reported usage at the
	// requested model's list price, even on simulated paths.
	cost := catalog.CalculateCost(resp.InputTokens, resp.OutputTokens, desc)

	d.recordUsage(r, requestID, userID, desc, resp, cost, http.StatusOK, start)

	utils.RespondWithJSON(w, http.StatusOK, generateResponse{
		Content: resp.Content,
		Usage: usagePayload{
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
			TotalCost:    cost,
		},
		Model:    req.Model,
		Provider: string(desc.Provider),
	})
}

// recordUsage enqueues the usage record, adds spend, and writes the attempt
// log. All of it is best-effort; a failure is logged and the response already
// on its way is unaffected.
func (d *Dependencies) recordUsage(
	r *http.Request,
	requestID uuid.UUID,
	userID string,
	desc models.ModelDescriptor,
	resp *providers.GenerateResponse,
	cost float64,
	status int,
	start time.Time,
) {
	record := &models.UsageRecord{
		ID:             uuid.New(),
		RequestID:      requestID,
		UserID:         userID,
		ModelID:        desc.ID,
		Provider:       string(desc.Provider),
		InputTokens:    resp.InputTokens,
		OutputTokens:   resp.OutputTokens,
		TotalCostUSD:   cost,
		ResponseTimeMS: int(resp.ProviderLatency.Milliseconds()),
		StatusCode:     status,
		CreatedAt:      time.Now(),
	}
	if err := d.UsageWorker.Enqueue(r.Context(), record); err != nil {
		d.logger.Error("Failed to enqueue usage record", "request", requestID, "error", err)
	}

	if err := d.Billing.AddUsage(r.Context(), userID, cost); err != nil {
		d.logger.Error("Failed to record spend", "user", userID, "error", err)
	}

	d.logAttempt(logging.AttemptLog{
		RequestID:    requestID.String(),
		UserID:       userID,
		Model:        desc.ID,
		Provider:     string(desc.Provider),
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		Cost:         cost,
		Status:       status,
		LatencyMS:    time.Since(start).Milliseconds(),
	})
}

func (d *Dependencies) logAttempt(entry logging.AttemptLog) {
	if d.AttemptLog == nil {
		return
	}
	d.AttemptLog.Log(entry)
}
