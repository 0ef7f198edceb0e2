package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Rrens/promptdesk/internal/config"
	"github.com/Rrens/promptdesk/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestToHistory(t *testing.T) {
	history := toHistory([]llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})

	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, genai.Text("hello"), history[1].Parts[0])
}

func TestProvider_Unconfigured(t *testing.T) {
	p := NewProvider(config.GeminiConfig{})
	assert.False(t, p.IsConfigured())
	assert.Equal(t, "gemini-2.5-flash", p.DefaultModel())

	_, err := p.Chat(context.Background(), llm.ChatRequest{Messages: []llm.Message{{Role: "user", Content: "hi"}}})
	assert.ErrorContains(t, err, "not configured")
}

func TestSplitTurns(t *testing.T) {
	t.Run("history and last turn", func(t *testing.T) {
		system, history, last, err := splitTurns([]llm.Message{
			{Role: "system", Content: "doc"},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello"},
			{Role: "user", Content: "more"},
		})
		require.NoError(t, err)
		assert.Equal(t, "doc", system)
		assert.Len(t, history, 2)
		assert.Equal(t, "more", last.Content)
	})

	t.Run("document without question asks for a summary", func(t *testing.T) {
		system, history, last, err := splitTurns([]llm.Message{{Role: "system", Content: "doc"}})
		require.NoError(t, err)
		assert.Equal(t, "doc", system)
		assert.Empty(t, history)
		assert.Equal(t, "user", last.Role)
		assert.Equal(t, "Summarize the document.", last.Content)
	})

	t.Run("empty conversation without document", func(t *testing.T) {
		_, _, _, err := splitTurns(nil)
		assert.Error(t, err)
	})
}

func TestClassifyError(t *testing.T) {
	t.Run("api error is passed through", func(t *testing.T) {
		err := classifyError(&googleapi.Error{Code: http.StatusTooManyRequests, Message: "Resource has been exhausted"})

		var upstream *llm.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, "gemini", upstream.Provider)
		assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
		assert.Equal(t, "Resource has been exhausted", upstream.Message)
	})

	t.Run("wrapped api error", func(t *testing.T) {
		apiErr, ok := apierror.FromError(&googleapi.Error{Code: http.StatusBadRequest, Message: "API key not valid"})
		require.True(t, ok)

		var upstream *llm.UpstreamError
		require.True(t, errors.As(classifyError(apiErr), &upstream))
		assert.Equal(t, "API key not valid", upstream.Message)
	})

	t.Run("cancellation stays opaque", func(t *testing.T) {
		err := classifyError(context.Canceled)

		var upstream *llm.UpstreamError
		assert.False(t, errors.As(err, &upstream))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("transport failure stays opaque", func(t *testing.T) {
		err := classifyError(errors.New("dial tcp: lookup generativelanguage.googleapis.com: no such host"))

		var upstream *llm.UpstreamError
		assert.False(t, errors.As(err, &upstream))
	})
}
