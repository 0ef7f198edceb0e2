package api

import (
	"github.com/Rrens/promptdesk/internal/config"
	"github.com/Rrens/promptdesk/internal/llm"
	"github.com/Rrens/promptdesk/internal/llm/anthropic"
	"github.com/Rrens/promptdesk/internal/llm/gemini"
	"github.com/Rrens/promptdesk/internal/llm/ollama"
	"github.com/Rrens/promptdesk/internal/llm/openai"
	"github.com/rs/zerolog/log"
)

// NewProviderRouter registers every upstream provider that has credentials
func NewProviderRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)
	timeout := cfg.RequestTimeout

	log.Info().Str("default", cfg.DefaultProvider).Msg("Initializing LLM providers")

	if cfg.OpenRouter.APIKey != "" {
		router.RegisterProvider(openai.NewOpenRouter(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, cfg.OpenRouter.BaseURL, timeout))
	}
	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, timeout))
	}
	if cfg.DeepSeek.APIKey != "" {
		router.RegisterProvider(openai.NewDeepSeek(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model, cfg.DeepSeek.BaseURL, timeout))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model, timeout))
	}
	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel, timeout))
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}

	log.Info().Strs("configured", router.ListProviders()).Msg("LLM providers registered")

	if _, err := router.GetProvider(""); err != nil {
		log.Warn().Err(err).Msg("Default LLM provider unavailable; chat requests will fail")
	}

	return router
}
