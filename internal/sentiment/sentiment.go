package sentiment

import (
	"context"
	"fmt"

	"resumescreen/internal/types"
)

// Labels
const (
	Positive = "Positive"
	Negative = "Negative"
	Neutral  = "Neutral"
)

// Engines selectable in configuration
const (
	EngineLexicon = "lexicon"
	EngineAI      = "ai"
)

// Analyzer scores the polarity of a text in [-1, 1].
type Analyzer interface {
	Score(ctx context.Context, text string) (float64, error)
	Name() string
}

// Classify buckets a polarity score.
func Classify(score float64) string {
	switch {
	case score > 0:
		return Positive
	case score < 0:
		return Negative
	default:
		return Neutral
	}
}

// Analyze scores text with a and returns the labelled result.
func Analyze(ctx context.Context, a Analyzer, text string) (types.SentimentResult, error) {
	score, err := a.Score(ctx, text)
	if err != nil {
		return types.SentimentResult{Label: Neutral}, err
	}
	score = clamp(score)
	return types.SentimentResult{Label: Classify(score), Score: score}, nil
}

// Scorer is the subset of an AI provider used for sentiment.
type Scorer interface {
	ScoreSentiment(ctx context.Context, input *types.SentimentInput) (*types.SentimentScore, error)
}

// AIAnalyzer delegates scoring to an AI provider.
type AIAnalyzer struct {
	scorer Scorer
}

// NewAIAnalyzer wraps scorer.
func NewAIAnalyzer(scorer Scorer) *AIAnalyzer {
	return &AIAnalyzer{scorer: scorer}
}

func (a *AIAnalyzer) Name() string { return EngineAI }

// Score returns 0 for blank text without calling the provider.
func (a *AIAnalyzer) Score(ctx context.Context, text string) (float64, error) {
	if isBlank(text) {
		return 0, nil
	}
	out, err := a.scorer.ScoreSentiment(ctx, &types.SentimentInput{Text: text})
	if err != nil {
		return 0, fmt.Errorf("sentiment scoring failed: %w", err)
	}
	return clamp(out.Score), nil
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
