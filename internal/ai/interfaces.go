package ai

import (
	"context"

	"resumescreen/internal/types"
)

// AIProvider is implemented by every model backend.
// All methods return token usage information; callers can ignore it if not needed.
type AIProvider interface {
	ScoreSentiment(ctx context.Context, input types.SentimentInput) (types.SentimentScore, *TokenUsage, error)
	Translate(ctx context.Context, input types.TranslateInput) (types.TranslationResult, *TokenUsage, error)
	CheckGrammar(ctx context.Context, input types.GrammarCheckInput) (types.GrammarReport, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	GetCircuitBreakerStats() map[string]any
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
