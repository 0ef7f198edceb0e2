package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/promptdesk/internal/config"
	"github.com/Rrens/promptdesk/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(cfg config.GeminiConfig) *Provider {
	return &Provider{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// Chat replays the history into a chat session and sends the final turn.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	model := req.Model
	if model == "" || !strings.HasPrefix(model, "gemini") {
		model = p.DefaultModel()
	}

	system, history, last, err := splitTurns(req.Messages)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	if system != "" {
		generativeModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if req.MaxTokens > 0 {
		generativeModel.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	session := generativeModel.StartChat()
	session.History = toHistory(history)

	start := time.Now()
	resp, err := session.SendMessage(ctx, genai.Text(last.Content))
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, classifyError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output.WriteString(string(text))
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.ChatResponse{
		Content:    output.String(),
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}

// splitTurns separates the system prompt from the replayed history and the
// turn to send. A document with no question is sent as a summary request;
// an empty conversation without a document is rejected.
func splitTurns(messages []llm.Message) (system string, history []llm.Message, last llm.Message, err error) {
	system, rest := llm.SplitSystem(messages)
	if len(rest) == 0 {
		if system == "" {
			return "", nil, llm.Message{}, errors.New("gemini requires at least one message")
		}
		rest = []llm.Message{{Role: "user", Content: "Summarize the document."}}
	}
	return system, rest[:len(rest)-1], rest[len(rest)-1], nil
}

// classifyError keeps API-reported failures as upstream errors; transport
// failures and cancellation stay opaque to clients.
func classifyError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return &llm.UpstreamError{Provider: "gemini", StatusCode: gerr.Code, Message: gerr.Message}
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if st := apiErr.GRPCStatus(); st != nil && st.Message() != "" {
			return &llm.UpstreamError{Provider: "gemini", StatusCode: apiErr.HTTPCode(), Message: st.Message()}
		}
	}

	return fmt.Errorf("gemini generation error: %w", err)
}

// toHistory maps chat roles onto Gemini's user/model roles
func toHistory(messages []llm.Message) []*genai.Content {
	history := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := "user"
		if m.Role == "assistant" {
			role = "model"
		}
		history = append(history, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}
	return history
}
