// Package openai implements llm.Provider for any upstream speaking the
// OpenAI chat/completions dialect (OpenRouter, OpenAI, DeepSeek).
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/promptdesk/internal/llm"
)

// Provider implements llm.Provider for OpenAI-compatible upstreams
type Provider struct {
	name         string
	apiKey       string
	defaultModel string
	models       []string
	client       *http.Client
	baseURL      string
}

// Option customises a Provider
type Option func(*Provider)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

// WithModels sets the advertised model list
func WithModels(models ...string) Option {
	return func(p *Provider) { p.models = models }
}

// NewProvider creates a provider named name posting to baseURL+"/chat/completions".
// A zero timeout means no client-side deadline.
func NewProvider(name, apiKey, defaultModel, baseURL string, timeout time.Duration, opts ...Option) *Provider {
	p := &Provider{
		name:         name,
		apiKey:       apiKey,
		defaultModel: defaultModel,
		models:       []string{defaultModel},
		client:       &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewOpenRouter creates the default upstream
func NewOpenRouter(apiKey, model, baseURL string, timeout time.Duration) *Provider {
	return NewProvider("openrouter", apiKey, model, baseURL, timeout,
		WithModels(model, "openai/gpt-4o-mini", "anthropic/claude-3.5-sonnet", "meta-llama/llama-3.1-8b-instruct"))
}

// NewOpenAI creates a provider for api.openai.com
func NewOpenAI(apiKey, model, baseURL string, timeout time.Duration) *Provider {
	return NewProvider("openai", apiKey, model, baseURL, timeout,
		WithModels("gpt-3.5-turbo", "gpt-4o", "gpt-4o-mini", "gpt-4-turbo"))
}

// NewDeepSeek creates a provider for api.deepseek.com
func NewDeepSeek(apiKey, model, baseURL string, timeout time.Duration) *Provider {
	return NewProvider("deepseek", apiKey, model, baseURL, timeout,
		WithModels("deepseek-chat", "deepseek-reasoner"))
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.name
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return p.models
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != "" && p.baseURL != ""
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Chat sends the conversation to the chat/completions endpoint
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	chatReq := chatRequest{
		Model:     model,
		Messages:  make([]chatMessage, 0, len(req.Messages)),
		MaxTokens: req.MaxTokens,
	}
	for _, m := range req.Messages {
		chatReq.Messages = append(chatReq.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%s returned status %d", p.name, resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	// Only the upstream's own error text is passed through to clients.
	if chatResp.Error != nil {
		return nil, &llm.UpstreamError{Provider: p.name, StatusCode: resp.StatusCode, Message: chatResp.Error.Message}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", p.name, resp.StatusCode)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in %s response", p.name)
	}

	if chatResp.Model != "" {
		model = chatResp.Model
	}

	return &llm.ChatResponse{
		Content:    chatResp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: chatResp.Usage.TotalTokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
