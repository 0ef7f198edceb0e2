package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/promptdesk/internal/document"
	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/Rrens/promptdesk/internal/llm"
	"github.com/Rrens/promptdesk/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DocumentExtractor turns an uploaded document into text
type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte, declaredType string) (string, error)
}

// ProviderSource resolves the upstream provider by name; "" is the default
type ProviderSource interface {
	GetProvider(name string) (llm.Provider, error)
}

// Attachment is an uploaded file as received
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ChatInput is one chat proxy request
type ChatInput struct {
	ProjectID string
	// Messages is the serialized conversation history
	Messages   []byte
	Attachment *Attachment
}

// ChatOptions holds the fixed upstream parameters
type ChatOptions struct {
	Provider         string
	Model            string
	MaxTokens        int
	MaxDocumentBytes int64
}

// ChatService proxies conversations to the upstream provider
type ChatService struct {
	projects  *ProjectService
	providers ProviderSource
	extractor DocumentExtractor
	recorder  metrics.Recorder
	opts      ChatOptions
}

// NewChatService creates a new chat service
func NewChatService(
	projects *ProjectService,
	providers ProviderSource,
	extractor DocumentExtractor,
	recorder metrics.Recorder,
	opts ChatOptions,
) *ChatService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &ChatService{
		projects:  projects,
		providers: providers,
		extractor: extractor,
		recorder:  recorder,
		opts:      opts,
	}
}

// Chat forwards the conversation, optionally led by the text of an
// attached PDF, and returns the first completion. The project must belong
// to ownerID; otherwise nothing is sent upstream.
func (s *ChatService) Chat(ctx context.Context, ownerID uuid.UUID, input ChatInput) (string, error) {
	project, err := s.projects.Get(ctx, ownerID, input.ProjectID)
	if err != nil {
		return "", err
	}

	history, err := domain.DecodeHistory(input.Messages)
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(history)+1)

	if a := input.Attachment; a != nil && document.IsPDF(a.ContentType) {
		text, err := s.extractDocument(ctx, a)
		if err != nil {
			return "", err
		}
		messages = append(messages, llm.Message{Role: string(domain.RoleSystem), Content: llm.BuildDocumentPrompt(text)})
	}

	for _, m := range history {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}

	provider, err := s.providers.GetProvider(s.opts.Provider)
	if err != nil {
		return "", fmt.Errorf("failed to resolve provider: %w", err)
	}

	start := time.Now()
	resp, err := provider.Chat(ctx, llm.ChatRequest{
		Messages:  messages,
		Model:     s.opts.Model,
		MaxTokens: s.opts.MaxTokens,
	})
	latency := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeError
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			outcome = metrics.OutcomeUpstream
		}
		s.recorder.RecordUpstream(provider.Name(), outcome, latency)
		return "", err
	}
	s.recorder.RecordUpstream(provider.Name(), metrics.OutcomeSuccess, latency)

	log.Ctx(ctx).Debug().
		Str("project_id", project.ID.String()).
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("messages", len(messages)).
		Int("tokens", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("Chat completed")

	return resp.Content, nil
}

func (s *ChatService) extractDocument(ctx context.Context, a *Attachment) (string, error) {
	if s.opts.MaxDocumentBytes > 0 && int64(len(a.Data)) > s.opts.MaxDocumentBytes {
		s.recorder.RecordDocument(metrics.OutcomeTooLarge)
		log.Ctx(ctx).Warn().Str("filename", a.Filename).Int("bytes", len(a.Data)).Msg("Attachment over size limit")
		return "", domain.ErrPayloadTooLarge
	}

	text, err := s.extractor.Extract(ctx, a.Data, a.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPayloadTooLarge):
			s.recorder.RecordDocument(metrics.OutcomeTooLarge)
		case errors.Is(err, domain.ErrUnreadableDocument):
			s.recorder.RecordDocument(metrics.OutcomeUnreadable)
		default:
			s.recorder.RecordDocument(metrics.OutcomeError)
		}
		log.Ctx(ctx).Warn().Err(err).
			Str("filename", a.Filename).
			Int("bytes", len(a.Data)).
			Msg("Attachment rejected")
		return "", err
	}

	s.recorder.RecordDocument(metrics.OutcomeSuccess)
	return text, nil
}
