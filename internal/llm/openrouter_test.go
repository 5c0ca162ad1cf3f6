package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.5-flash"})
	require.Error(t, err)
}

func TestOpenRouterProvider_SendsAppHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "gen-1",
			"object": "chat.completion",
			"model":  "google/gemini-2.5-flash",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Slope is rise over run."},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 6, "total_tokens": 16},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.5-flash",
		BaseURL: server.URL + "/api/v1",
	})
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())
	require.NotNil(t, LookupCost(p.ModelID()), "vendor-prefixed id should be priced")

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "What is slope?"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Slope is rise over run.", string(resp.Content))
	assert.Equal(t, 16, resp.Usage.TotalTokens)

	assert.Equal(t, "Bearer sk-or-test", got.Get("Authorization"))
	assert.Equal(t, "MathGalaxy", got.Get("X-Title"))
	assert.NotEmpty(t, got.Get("HTTP-Referer"))
}

func TestOpenRouterProvider_ErrorsNameProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "upstream down", "code": 502}})
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "x/y", BaseURL: server.URL})
	require.NoError(t, err)

	err = p.HealthCheck(context.Background())
	var unavail *ErrProviderUnavailable
	require.True(t, errors.As(err, &unavail), "got %T (%v)", err, err)
	assert.Equal(t, ProviderOpenRouter, unavail.Provider)
	assert.Equal(t, http.StatusBadGateway, unavail.Status)
	assert.Contains(t, err.Error(), "openrouter unavailable")
}
