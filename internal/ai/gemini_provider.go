package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"resumescreen/internal/config"
	appErrors "resumescreen/internal/errors"
	"resumescreen/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const modelCheckTimeout = 10 * time.Second

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	config         *config.OperationAIConfig
	operation      string
	retrier        retrier
	circuitBreaker *Breaker[*genai.GenerateContentResponse]
	modelBreaker   *Breaker[*genai.Model]
	logger         *appErrors.Logger
}

var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *appErrors.Logger) (*GeminiProvider, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout != nil {
		clientConfig.HTTPClient = &http.Client{Timeout: *cfg.Timeout}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		operation:      operationType,
		retrier:        newRetrier(*cfg.MaxRetries, logger),
		circuitBreaker: NewAICircuitBreaker[*genai.GenerateContentResponse](operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker[*genai.Model](operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:     g.config.Model,
		Provider: "gemini",
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeGemini runs one structured generation call with tracing, circuit
// breaker, retries and JSON decoding of the response into Out.
func executeGemini[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("resumescreen.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}
	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return executeWithRetry(ctx, g.retrier, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIResponseParse, "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractGeminiTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// ScoreSentiment implements AIProvider
func (g *GeminiProvider) ScoreSentiment(ctx context.Context, input types.SentimentInput) (types.SentimentScore, *TokenUsage, error) {
	systemPrompt, userPrompt := buildPrompts(g.config, config.OperationSentiment, input.Text, "")

	output, tokenUsage, err := executeGemini[types.SentimentScore](
		g, ctx, "score_sentiment", userPrompt, systemPrompt,
		buildSchema(sentimentSchema()),
		attribute.Int("input.text_length", len(input.Text)),
	)
	if err != nil {
		return types.SentimentScore{}, nil, err
	}
	return output, tokenUsage, nil
}

// Translate implements AIProvider
func (g *GeminiProvider) Translate(ctx context.Context, input types.TranslateInput) (types.TranslationResult, *TokenUsage, error) {
	systemPrompt, userPrompt := buildPrompts(g.config, config.OperationTranslate, input.Text, input.TargetLanguage)

	output, tokenUsage, err := executeGemini[types.TranslationResult](
		g, ctx, "translate", userPrompt, systemPrompt,
		buildSchema(translateSchema()),
		attribute.Int("input.text_length", len(input.Text)),
		attribute.String("input.target_language", input.TargetLanguage),
	)
	if err != nil {
		return types.TranslationResult{}, nil, err
	}

	output.TargetLanguage = input.TargetLanguage
	return output, tokenUsage, nil
}

// CheckGrammar implements AIProvider
func (g *GeminiProvider) CheckGrammar(ctx context.Context, input types.GrammarCheckInput) (types.GrammarReport, *TokenUsage, error) {
	systemPrompt, userPrompt := buildPrompts(g.config, config.OperationGrammar, input.Text, input.Language)

	output, tokenUsage, err := executeGemini[types.GrammarReport](
		g, ctx, "check_grammar", userPrompt, systemPrompt,
		buildSchema(grammarSchema()),
		attribute.Int("input.text_length", len(input.Text)),
	)
	if err != nil {
		return types.GrammarReport{}, nil, err
	}

	output.Language = input.Language
	if output.Issues == nil {
		output.Issues = []types.GrammarIssue{}
	}
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(attribute.Int("grammar.issues", len(output.Issues)))
	}
	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetStats(),
		"overall_healthy":  g.circuitBreaker.IsHealthy() && g.modelBreaker.IsHealthy(),
	}
}

// Close implements AIProvider. The genai client holds no resources in
// single-shot usage.
func (g *GeminiProvider) Close() error {
	return nil
}

func buildSchema(schema *genai.Schema) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	}
}

func sentimentSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {Type: genai.TypeNumber},
		},
		Required: []string{"score"},
	}
}

func translateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"text": {Type: genai.TypeString},
		},
		Required: []string{"text"},
	}
}

func grammarSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"issues": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"message": {Type: genai.TypeString},
						"context": {Type: genai.TypeString},
						"suggestions": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
					},
					Required: []string{"message", "context", "suggestions"},
				},
			},
		},
		Required: []string{"issues"},
	}
}

// extractGeminiTokenUsage extracts token usage information from a Gemini response
func extractGeminiTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
