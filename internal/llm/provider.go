package llm

import (
	"context"
	"fmt"
)

// Message is one conversation entry sent upstream
type Message struct {
	Role    string
	Content string
}

// ChatRequest contains chat completion parameters
type ChatRequest struct {
	Messages  []Message
	Model     string
	MaxTokens int
}

// ChatResponse contains the completion result
type ChatResponse struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for upstream completion providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat sends the conversation and returns the first completion.
	// An error payload from the provider is returned as *UpstreamError.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// UpstreamError is an error reported by the provider in its response body
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}
