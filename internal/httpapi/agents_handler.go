package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"agent_academy/internal/agents"
	"agent_academy/internal/catalog"
	"agent_academy/internal/logging"
	"agent_academy/internal/middleware"
	"agent_academy/internal/models"
	"agent_academy/internal/utils"
)

type agentResponse struct {
	Content  string                 `json:"content"`
	Usage    usagePayload           `json:"usage"`
	Model    string                 `json:"model"`
	Provider string                 `json:"provider"`
	Feedback *models.PromptFeedback `json:"feedback,omitempty"`
}

// handleAgents dispatches exercise agent calls. The agent/method pair picks
// the system prompt and sampling parameters; the model is fixed per agent.
// Replies from the prompt analysis exercise additionally carry structured
// feedback extracted from the model's text.
func (d *Dependencies) handleAgents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	var req agents.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	invocation, err := agents.BuildInvocation(req)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
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

	desc, ok := d.Catalog.Lookup(invocation.Model)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("model %s not supported", invocation.Model))
		return
	}
	provider, ok := d.Providers.Get(desc.Provider)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("provider %s not implemented", desc.Provider))
		return
	}

	requestID := uuid.New()
	resp, err := provider.Generate(ctx, invocation.Req)
	if err != nil {
		d.logger.Error("Agent call failed", "agent", req.Agent, "method", req.Method, "error", err)
		d.logAttempt(logging.AttemptLog{
			RequestID: requestID.String(),
			UserID:    userID,
			Model:     invocation.Model,
			Provider:  string(desc.Provider),
			Status:    http.StatusInternalServerError,
			LatencyMS: time.Since(start).Milliseconds(),
			Error:     err.Error(),
		})
		utils.RespondWithUpstreamError(w, http.StatusInternalServerError, err.Error())
		return
	}

	cost := catalog.CalculateCost(resp.InputTokens, resp.OutputTokens, desc)
	d.recordUsage(r, requestID, userID, desc, resp, cost, http.StatusOK, start)

	out := agentResponse{
		Content: resp.Content,
		Usage: usagePayload{
			InputTokens:  resp.InputTokens,
			OutputTokens: resp.OutputTokens,
			TotalCost:    cost,
		},
		Model:    invocation.Model,
		Provider: string(desc.Provider),
	}
	if invocation.ParseFeedback {
		feedback := agents.ParseFeedback(resp.Content)
		out.Feedback = &feedback
	}

	utils.RespondWithJSON(w, http.StatusOK, out)
}
