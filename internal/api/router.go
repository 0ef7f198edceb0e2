package api

import (
	"net/http"

	"github.com/Rrens/promptdesk/internal/api/handler"
	customMiddleware "github.com/Rrens/promptdesk/internal/api/middleware"
	"github.com/Rrens/promptdesk/internal/config"
	"github.com/Rrens/promptdesk/internal/document"
	"github.com/Rrens/promptdesk/internal/llm"
	"github.com/Rrens/promptdesk/internal/metrics"
	"github.com/Rrens/promptdesk/internal/repository"
	"github.com/Rrens/promptdesk/internal/security"
	"github.com/Rrens/promptdesk/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, store *repository.Store, providers *llm.Router) http.Handler {
	r := chi.NewRouter()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger(log.Logger))
	r.Use(middleware.Recoverer)
	if cfg.Metrics.Enabled {
		r.Use(collector.Middleware)
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)

	// Initialize services
	authService := service.NewAuthService(store.Users, jwtManager, hasher)
	projectService := service.NewProjectService(store.Projects)
	chatService := service.NewChatService(
		projectService,
		providers,
		document.NewExtractor(cfg.Upload.MaxDocumentBytes),
		collector,
		service.ChatOptions{
			Provider:         cfg.LLM.DefaultProvider,
			Model:            cfg.LLM.Chat.Model,
			MaxTokens:        cfg.LLM.Chat.MaxTokens,
			MaxDocumentBytes: cfg.Upload.MaxDocumentBytes,
		},
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	chatHandler := handler.NewChatHandler(chatService, cfg.Upload.MaxDocumentBytes)

	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)

	// Public routes
	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(store))
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler(registry))
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(authMiddleware.Authenticate).Get("/me", authHandler.Me)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Get("/llm/providers", handler.ListLLMProviders(providers))

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Post("/", projectHandler.Create)
			r.Get("/{projectID}", projectHandler.Get)
		})

		r.Post("/chat", chatHandler.Chat)
	})

	return r
}
