package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justttkumkum/talent-scout-ai/internal/config"
)

func newGatewayServer(t *testing.T, status int, body string, captured *map[string]any) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if captured != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(captured))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestGatewayClientComplete(t *testing.T) {
	var captured map[string]any
	server := newGatewayServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"technicalSkill\": 8}"}, "finish_reason": "stop"}]
	}`, &captured)

	client, err := NewGatewayClient(config.LLMConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "google/gemini-2.5-flash",
	})
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), SystemInstruction, "Analyze this")
	require.NoError(t, err)
	assert.Equal(t, `{"technicalSkill": 8}`, reply)

	assert.Equal(t, "google/gemini-2.5-flash", captured["model"])
	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, SystemInstruction, messages[0].(map[string]any)["content"])
	assert.Equal(t, "user", messages[1].(map[string]any)["role"])
}

func TestGatewayClientNonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "Rate limited", status: http.StatusTooManyRequests, body: `{"error": {"message": "Rate limit exceeded", "type": "rate_limit"}}`},
		{name: "Payment required", status: http.StatusPaymentRequired, body: `{"error": {"message": "Credits exhausted"}}`},
		{name: "Plain text error", status: http.StatusBadGateway, body: `upstream unavailable`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newGatewayServer(t, tt.status, tt.body, nil)

			client, err := NewGatewayClient(config.LLMConfig{BaseURL: server.URL, APIKey: "test-key", Model: "m"})
			require.NoError(t, err)

			_, err = client.Complete(context.Background(), SystemInstruction, "Analyze this")

			var analysisErr *AnalysisError
			require.ErrorAs(t, err, &analysisErr)
			assert.Equal(t, tt.status, analysisErr.StatusCode)
		})
	}
}

func TestGatewayClientNoChoices(t *testing.T) {
	server := newGatewayServer(t, http.StatusOK, `{"id": "x", "choices": []}`, nil)

	client, err := NewGatewayClient(config.LLMConfig{BaseURL: server.URL, APIKey: "test-key", Model: "m"})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), SystemInstruction, "Analyze this")
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestGatewayClientRequiresKey(t *testing.T) {
	_, err := NewGatewayClient(config.LLMConfig{BaseURL: "http://localhost", Model: "m"})
	assert.ErrorIs(t, err, ErrLLMNotConfigured)
}
