package server

import (
	"context"
	"time"

	"resumescreen/internal/app"
	"resumescreen/internal/catalog"
	"resumescreen/internal/config"
	appErrors "resumescreen/internal/errors"
	"resumescreen/internal/observability"
	"resumescreen/internal/types"
)

// TranslateRequest represents the request body for the translate endpoint
type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

// GrammarRequest represents the request body for the grammar endpoint
type GrammarRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Type    string   `json:"type,omitempty"`
	Code    string   `json:"code,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Service is the application surface the handlers call. *app.App implements it.
type Service interface {
	Screen(ctx context.Context, in app.ScreenInput) (*types.ScreenReport, error)
	CoverLetter(ctx context.Context, in app.CoverLetterInput) (*types.CoverLetter, error)
	Translate(ctx context.Context, input *types.TranslateInput) (*types.TranslationResult, error)
	CheckGrammar(ctx context.Context, input *types.GrammarCheckInput) (*types.GrammarReport, error)
	ModelStatus(ctx context.Context) map[string]any
	AIStats() map[string]any
	Catalog() *catalog.Store
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config
	App       Service

	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Observability *observability.ObservabilityManager
	Logger        *appErrors.Logger

	catalogWatcher *catalog.Watcher
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// ConfigFrom derives a ServerConfig from the application configuration
func ConfigFrom(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		TLSConfig:      cfg.Server.TLS,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize,
		RateLimit:      &cfg.Server.RateLimit,
	}
}

// NewServer creates a new Server instance from a ServerConfig struct. om may
// be nil, in which case handlers run without tracing.
func NewServer(appCfg *config.Config, svc Service, cfg ServerConfig, om *observability.ObservabilityManager, logger *appErrors.Logger) *Server {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}

	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstCapacity, logger)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		App:            svc,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Observability:  om,
		Logger:         logger,
	}
}
