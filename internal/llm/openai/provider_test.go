package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/promptdesk/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Chat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"openai/gpt-3.5-turbo","choices":[{"message":{"role":"assistant","content":"hello"}}],"usage":{"total_tokens":12}}`))
	}))
	defer srv.Close()

	p := NewOpenRouter("key", "openai/gpt-3.5-turbo", srv.URL+"/", 0)
	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages:  []llm.Message{{Role: "system", Content: "doc"}, {Role: "user", Content: "hi"}},
		MaxTokens: 600,
	})
	require.NoError(t, err)

	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, 12, resp.TokensUsed)
	assert.Equal(t, "openai/gpt-3.5-turbo", got.Model)
	assert.Equal(t, 600, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "hi", got.Messages[1].Content)
}

func TestProvider_ChatErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"Insufficient credits","code":402}}`))
	}))
	defer srv.Close()

	p := NewDeepSeek("key", "deepseek-chat", srv.URL, 0)
	_, err := p.Chat(context.Background(), llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "hi"}}})

	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "deepseek", upstream.Provider)
	assert.Equal(t, http.StatusPaymentRequired, upstream.StatusCode)
	assert.Equal(t, "Insufficient credits", upstream.Message)
}

func TestProvider_ChatNonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewProvider("openai", "key", "gpt-3.5-turbo", srv.URL, 0, WithHTTPClient(srv.Client()))
	_, err := p.Chat(context.Background(), llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)

	// Without an error object there is no upstream text to pass on.
	var upstream *llm.UpstreamError
	assert.False(t, errors.As(err, &upstream))
	assert.Contains(t, err.Error(), "502")
}

func TestProvider_ChatNon200WithoutErrorObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewProvider("openrouter", "key", "m", srv.URL, 0, WithHTTPClient(srv.Client()))
	_, err := p.Chat(context.Background(), llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "hi"}}})
	require.Error(t, err)

	var upstream *llm.UpstreamError
	assert.False(t, errors.As(err, &upstream))
}

func TestProvider_IsConfigured(t *testing.T) {
	assert.False(t, NewOpenRouter("", "m", "https://openrouter.ai/api/v1", 0).IsConfigured())
	assert.True(t, NewOpenRouter("k", "m", "https://openrouter.ai/api/v1", 0).IsConfigured())
	assert.Contains(t, NewOpenAI("k", "gpt-3.5-turbo", "x", 0).AvailableModels(), "gpt-4o")
}
