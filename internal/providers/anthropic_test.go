package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent_academy/internal/models"
)

// fakeMessagesAPI stands in for the Anthropic Messages API. It records the
// last decoded request body and replies with a fixed text completion.
type fakeMessagesAPI struct {
	lastRequest anthropicRequest
	lastHeaders http.Header
	statusCode  int
	content     string
}

func (f *fakeMessagesAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.lastHeaders = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&f.lastRequest)

		if f.statusCode != 0 && f.statusCode != http.StatusOK {
			w.WriteHeader(f.statusCode)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"type": "overloaded_error", "message": "upstream overloaded"},
			})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": f.content}},
			"usage":   map[string]int{"input_tokens": 12, "output_tokens": 34},
		})
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	fake := &fakeMessagesAPI{content: "Hello from the model."}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	defer p.Close()

	resp, err := p.Generate(context.Background(), GenerateRequest{
		Model:       "claude-3-5-sonnet-20241022",
		Prompt:      "say hello",
		System:      "be friendly",
		MaxTokens:   200,
		Temperature: 0.4,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello from the model.", resp.Content)
	assert.Equal(t, 12, resp.InputTokens)
	assert.Equal(t, 34, resp.OutputTokens)
	assert.Greater(t, resp.ProviderLatency.Nanoseconds(), int64(0))

	assert.Equal(t, "test-key", fake.lastHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", fake.lastHeaders.Get("anthropic-version"))
	assert.Equal(t, "claude-3-5-sonnet-20241022", fake.lastRequest.Model)
	assert.Equal(t, "be friendly", fake.lastRequest.System)
	assert.Equal(t, 200, fake.lastRequest.MaxTokens)
	require.Len(t, fake.lastRequest.Messages, 1)
	assert.Equal(t, "user", fake.lastRequest.Messages[0].Role)
	assert.Equal(t, "say hello", fake.lastRequest.Messages[0].Content)
}

func TestAnthropicProvider_Defaults(t *testing.T) {
	fake := &fakeMessagesAPI{content: "ok"}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	defer p.Close()

	_, err := p.Generate(context.Background(), GenerateRequest{
		Model:  "claude-3-haiku-20240307",
		Prompt: "hi",
	})
	require.NoError(t, err)

	assert.Equal(t, defaultMaxTokens, fake.lastRequest.MaxTokens)
	assert.Equal(t, defaultSystem, fake.lastRequest.System)
}

func TestAnthropicProvider_UpstreamError(t *testing.T) {
	fake := &fakeMessagesAPI{statusCode: http.StatusServiceUnavailable}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	p := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	defer p.Close()

	_, err := p.Generate(context.Background(), GenerateRequest{Model: "claude-3-haiku-20240307", Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "upstream overloaded")
}

func TestAnthropicProvider_MissingAPIKey(t *testing.T) {
	p := NewAnthropicProvider(AnthropicConfig{})
	defer p.Close()

	_, err := p.Generate(context.Background(), GenerateRequest{Model: "claude-3-haiku-20240307", Prompt: "hi"})
	assert.ErrorContains(t, err, "API key not configured")
}

func TestSimulatedProvider(t *testing.T) {
	fake := &fakeMessagesAPI{content: "simulated reply"}
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	anthropic := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	defer anthropic.Close()

	p := NewSimulatedProvider(models.ProviderQwen, anthropic)
	assert.Equal(t, models.ProviderQwen, p.Name())

	resp, err := p.Generate(context.Background(), GenerateRequest{
		Model:  "qwen2.5-14b-instruct",
		Prompt: "hi",
	})
	require.NoError(t, err)

	// The reply is prefixed with the requested model, but the upstream call
	// goes out on the fallback model.
	assert.Equal(t, "[Simulating qwen2.5-14b-instruct] simulated reply", resp.Content)
	assert.Equal(t, simulationFallbackModel, fake.lastRequest.Model)
}

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry(AnthropicConfig{APIKey: "test-key"})
	defer r.Close()

	for _, name := range []models.ProviderName{models.ProviderAnthropic, models.ProviderQwen, models.ProviderOpenAI} {
		p, ok := r.Get(name)
		require.True(t, ok, "provider %s not registered", name)
		assert.Equal(t, name, p.Name())
	}

	_, ok := r.Get(models.ProviderHuggingFace)
	assert.False(t, ok, "huggingface has no dispatch path")
}
