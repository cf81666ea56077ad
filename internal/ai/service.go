package ai

import (
	"context"
	"fmt"
	"strings"

	"resumescreen/internal/config"
	"resumescreen/internal/errors"
	"resumescreen/internal/observability"
	"resumescreen/internal/types"
)

// DefaultGrammarLanguage asks the model to detect the language itself.
const DefaultGrammarLanguage = "auto-detect"

// Service runs one AI-backed operation (sentiment, translate or grammar)
// against the configured provider.
type Service struct {
	Provider  AIProvider // Exported for access from server package
	config    *config.OperationAIConfig
	operation string
	metrics   *observability.Metrics
	logger    *errors.Logger
}

// NewService creates a new AI service instance with configuration for a specific operation
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, errors.NewConfigError(errors.ErrCodeMissingAPIKey,
			fmt.Sprintf("No API key configured for %s provider (operation %s)", cfg.Provider, operationType), nil)
	}

	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	var provider AIProvider
	var err error

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiProvider(cfg, operationType, logger)
	case "openai":
		provider, err = NewOpenAIProvider(cfg, operationType, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return NewServiceWithProvider(provider, cfg, operationType, logger), nil
}

// NewServiceWithProvider wraps an existing provider. Used by NewService and by
// callers that bring their own provider.
func NewServiceWithProvider(provider AIProvider, cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) *Service {
	return &Service{
		Provider:  provider,
		config:    cfg,
		operation: operationType,
		logger:    logger,
	}
}

// WithMetrics records every call of the service on m.
func (s *Service) WithMetrics(m *observability.Metrics) *Service {
	s.metrics = m
	return s
}

// Operation returns the operation the service was configured for.
func (s *Service) Operation() string {
	return s.operation
}

// ScoreSentiment returns the polarity of input.Text as judged by the model.
func (s *Service) ScoreSentiment(ctx context.Context, input *types.SentimentInput) (*types.SentimentScore, error) {
	if input == nil || strings.TrimSpace(input.Text) == "" {
		return &types.SentimentScore{}, nil
	}

	var out types.SentimentScore
	err := s.track(ctx, config.OperationSentiment, func(ctx context.Context) (*TokenUsage, error) {
		var usage *TokenUsage
		var err error
		out, usage, err = s.Provider.ScoreSentiment(ctx, *input)
		return usage, err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Translate translates input.Text into input.TargetLanguage.
func (s *Service) Translate(ctx context.Context, input *types.TranslateInput) (*types.TranslationResult, error) {
	if input == nil || strings.TrimSpace(input.Text) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "text to translate is required", nil)
	}
	if strings.TrimSpace(input.TargetLanguage) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "target language is required", nil)
	}

	var out types.TranslationResult
	err := s.track(ctx, config.OperationTranslate, func(ctx context.Context) (*TokenUsage, error) {
		var usage *TokenUsage
		var err error
		out, usage, err = s.Provider.Translate(ctx, *input)
		return usage, err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckGrammar reports grammar issues in input.Text. An empty language lets
// the model detect it.
func (s *Service) CheckGrammar(ctx context.Context, input *types.GrammarCheckInput) (*types.GrammarReport, error) {
	if input == nil || strings.TrimSpace(input.Text) == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "text to check is required", nil)
	}
	req := *input
	if strings.TrimSpace(req.Language) == "" {
		req.Language = DefaultGrammarLanguage
	}

	var out types.GrammarReport
	err := s.track(ctx, config.OperationGrammar, func(ctx context.Context) (*TokenUsage, error) {
		var usage *TokenUsage
		var err error
		out, usage, err = s.Provider.CheckGrammar(ctx, req)
		return usage, err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModelInfo returns information about the AI model for health checks
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Provider.GetModelInfo(ctx)
}

// Stats returns the circuit breaker statistics of the provider.
func (s *Service) Stats() map[string]any {
	stats := s.Provider.GetCircuitBreakerStats()
	stats["operation"] = s.operation
	stats["provider"] = s.config.Provider
	stats["model"] = s.config.Model
	return stats
}

// Close releases the provider.
func (s *Service) Close() error {
	return s.Provider.Close()
}

// track runs fn under the service metrics and logs failures.
func (s *Service) track(ctx context.Context, operation string, fn func(context.Context) (*TokenUsage, error)) error {
	err := s.metrics.TrackAIOperationWithTokens(ctx, operation, func(ctx context.Context) *observability.AIOperationResult {
		usage, err := fn(ctx)
		result := &observability.AIOperationResult{Error: err}
		if usage != nil {
			result.TokenUsage = &observability.TokenUsage{
				InputTokens:  usage.InputTokens,
				OutputTokens: usage.OutputTokens,
				TotalTokens:  usage.TotalTokens,
			}
		}
		return result
	})
	if err != nil {
		s.logger.LogError(err, "AI operation failed", "operation", operation, "provider", s.config.Provider)
	}
	return err
}
