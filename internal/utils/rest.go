package utils

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// DegradedErrorResponse is the sentinel envelope returned when an upstream
// provider call fails. The model/provider fields are always the literal
// "unknown" so UI callers can destructure a consistent shape instead of
// branching on exceptions.
type DegradedErrorResponse struct {
	Error    string `json:"error"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// RespondWithError sends an error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithUpstreamError sends the degraded sentinel envelope for failed
// provider calls.
func RespondWithUpstreamError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, DegradedErrorResponse{
		Error:    message,
		Model:    "unknown",
		Provider: "unknown",
	})
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "Failed to encode response: "+err.Error(), http.StatusInternalServerError)
		return err
	}
	return nil
}
