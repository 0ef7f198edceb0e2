package anthropic

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

func TestProvider_ChatMovesSystemOutOfBand(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"content":[{"type":"text","text":"answer"}],"usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	p := NewProvider("key", "", 0).WithBaseURL(srv.URL)
	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages:  []llm.Message{{Role: "system", Content: "pdf text"}, {Role: "user", Content: "q"}},
		MaxTokens: 600,
	})
	require.NoError(t, err)

	assert.Equal(t, "answer", resp.Content)
	assert.Equal(t, 7, resp.TokensUsed)
	assert.Equal(t, "pdf text", got.System)
	assert.Equal(t, 600, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestProvider_ChatError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	p := NewProvider("bad", "", 0).WithBaseURL(srv.URL)
	_, err := p.Chat(context.Background(), llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "q"}}})

	var upstream *llm.UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, "invalid x-api-key", upstream.Message)
}

func TestProvider_ChatNonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvider("key", "", 0).WithBaseURL(srv.URL)
	_, err := p.Chat(context.Background(), llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "q"}}})
	require.Error(t, err)

	var upstream *llm.UpstreamError
	assert.False(t, errors.As(err, &upstream))
}
