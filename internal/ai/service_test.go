package ai

import (
	"context"
	"testing"
	"time"

	"resumescreen/internal/config"
	"resumescreen/internal/errors"
	"resumescreen/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOperationConfig(provider string) *config.OperationAIConfig {
	timeout := 5 * time.Second
	retries := 1
	temperature := float32(0.2)
	useSystem := true
	return &config.OperationAIConfig{
		Provider:         provider,
		Model:            "test-model",
		APIKey:           "test-key",
		Timeout:          &timeout,
		MaxRetries:       &retries,
		Temperature:      &temperature,
		UseSystemPrompts: &useSystem,
	}
}

// fakeProvider records the inputs it receives and returns canned outputs.
type fakeProvider struct {
	sentiment   types.SentimentScore
	translation types.TranslationResult
	grammar     types.GrammarReport
	usage       *TokenUsage
	err         error

	lastTranslate types.TranslateInput
	lastGrammar   types.GrammarCheckInput
	sentimentHits int
}

func (f *fakeProvider) ScoreSentiment(_ context.Context, _ types.SentimentInput) (types.SentimentScore, *TokenUsage, error) {
	f.sentimentHits++
	return f.sentiment, f.usage, f.err
}

func (f *fakeProvider) Translate(_ context.Context, in types.TranslateInput) (types.TranslationResult, *TokenUsage, error) {
	f.lastTranslate = in
	return f.translation, f.usage, f.err
}

func (f *fakeProvider) CheckGrammar(_ context.Context, in types.GrammarCheckInput) (types.GrammarReport, *TokenUsage, error) {
	f.lastGrammar = in
	return f.grammar, f.usage, f.err
}

func (f *fakeProvider) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "fake", Provider: "fake", Available: true}
}

func (f *fakeProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{"overall_healthy": true}
}

func (f *fakeProvider) Close() error { return nil }

func TestNewServiceRejectsMissingKey(t *testing.T) {
	cfg := testOperationConfig("gemini")
	cfg.APIKey = ""

	_, err := NewService(cfg, config.OperationTranslate, errors.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestNewServiceRejectsUnknownProvider(t *testing.T) {
	_, err := NewService(testOperationConfig("watson"), config.OperationTranslate, errors.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "Unsupported AI provider")
}

func TestNewServiceBuildsProviders(t *testing.T) {
	for _, provider := range []string{"gemini", "openai"} {
		t.Run(provider, func(t *testing.T) {
			svc, err := NewService(testOperationConfig(provider), config.OperationGrammar, errors.NewNopLogger())
			require.NoError(t, err)
			assert.Equal(t, config.OperationGrammar, svc.Operation())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestServiceTranslate(t *testing.T) {
	fake := &fakeProvider{translation: types.TranslationResult{TargetLanguage: "French", Text: "Bonjour"}}
	svc := NewServiceWithProvider(fake, testOperationConfig("fake"), config.OperationTranslate, errors.NewNopLogger())

	out, err := svc.Translate(context.Background(), &types.TranslateInput{Text: "Hello", TargetLanguage: "French"})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out.Text)
	assert.Equal(t, "French", fake.lastTranslate.TargetLanguage)
}

func TestServiceTranslateValidation(t *testing.T) {
	svc := NewServiceWithProvider(&fakeProvider{}, testOperationConfig("fake"), config.OperationTranslate, errors.NewNopLogger())

	tests := []struct {
		name  string
		input *types.TranslateInput
	}{
		{"nil input", nil},
		{"blank text", &types.TranslateInput{Text: "  ", TargetLanguage: "fr"}},
		{"missing language", &types.TranslateInput{Text: "Hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Translate(context.Background(), tt.input)
			assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
		})
	}
}

func TestServiceCheckGrammarDefaultsLanguage(t *testing.T) {
	fake := &fakeProvider{grammar: types.GrammarReport{Issues: []types.GrammarIssue{{Message: "Subject-verb agreement"}}}}
	svc := NewServiceWithProvider(fake, testOperationConfig("fake"), config.OperationGrammar, errors.NewNopLogger())

	out, err := svc.CheckGrammar(context.Background(), &types.GrammarCheckInput{Text: "He go to work."})
	require.NoError(t, err)
	assert.Len(t, out.Issues, 1)
	assert.Equal(t, DefaultGrammarLanguage, fake.lastGrammar.Language)

	_, err = svc.CheckGrammar(context.Background(), &types.GrammarCheckInput{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestServiceScoreSentiment(t *testing.T) {
	fake := &fakeProvider{sentiment: types.SentimentScore{Score: 0.6}}
	svc := NewServiceWithProvider(fake, testOperationConfig("fake"), config.OperationSentiment, errors.NewNopLogger())

	out, err := svc.ScoreSentiment(context.Background(), &types.SentimentInput{Text: "Led a successful migration"})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, out.Score, 1e-9)

	// Blank text never reaches the provider
	out, err = svc.ScoreSentiment(context.Background(), &types.SentimentInput{Text: " "})
	require.NoError(t, err)
	assert.Zero(t, out.Score)
	assert.Equal(t, 1, fake.sentimentHits)
}

func TestServicePropagatesProviderErrors(t *testing.T) {
	fake := &fakeProvider{err: errors.NewAIError(errors.ErrCodeAIServiceFailed, "quota", nil)}
	svc := NewServiceWithProvider(fake, testOperationConfig("fake"), config.OperationTranslate, errors.NewNopLogger())

	_, err := svc.Translate(context.Background(), &types.TranslateInput{Text: "Hello", TargetLanguage: "de"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeAI))
}

func TestServiceStats(t *testing.T) {
	svc := NewServiceWithProvider(&fakeProvider{}, testOperationConfig("fake"), config.OperationGrammar, errors.NewNopLogger())

	stats := svc.Stats()
	assert.Equal(t, config.OperationGrammar, stats["operation"])
	assert.Equal(t, "test-model", stats["model"])
	assert.Equal(t, true, stats["overall_healthy"])
	assert.True(t, svc.GetModelInfo(context.Background()).Available)
}
