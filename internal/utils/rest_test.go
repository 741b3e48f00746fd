package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	err := RespondWithJSON(rec, 201, map[string]string{"hello": "world"})
	require.NoError(t, err)

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, 400, "model and prompt are required")

	assert.Equal(t, 400, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "model and prompt are required", body.Error)
}

func TestRespondWithUpstreamError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithUpstreamError(rec, 500, "provider timeout")

	assert.Equal(t, 500, rec.Code)

	// The degraded envelope always carries the literal "unknown" sentinels.
	var body DegradedErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "provider timeout", body.Error)
	assert.Equal(t, "unknown", body.Model)
	assert.Equal(t, "unknown", body.Provider)
}
