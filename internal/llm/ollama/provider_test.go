package ollama

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
	var got ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"pong"},"done":true,"prompt_eval_count":5,"eval_count":2}`))
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "", 0)
	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages:  []llm.Message{{Role: "user", Content: "ping"}},
		MaxTokens: 600,
	})
	require.NoError(t, err)

	assert.Equal(t, "pong", resp.Content)
	assert.Equal(t, 7, resp.TokensUsed)
	assert.False(t, got.Stream)
	assert.Equal(t, "llama3", got.Model)
	assert.EqualValues(t, 600, got.Options["num_predict"])
}

func TestProvider_ChatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model \"nope\" not found"}`))
	}))
	defer srv.Close()

	_, err := NewProvider(srv.URL, "nope", 0).Chat(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: "ping"}},
	})

	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	assert.Contains(t, upstream.Message, "not found")
}
