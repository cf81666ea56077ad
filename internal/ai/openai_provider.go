package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resumescreen/internal/config"
	appErrors "resumescreen/internal/errors"
	"resumescreen/internal/types"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// OpenAIProvider implements AIProvider on the OpenAI chat completions API in
// JSON mode. Any OpenAI-compatible endpoint works through BaseURL.
type OpenAIProvider struct {
	client         *openai.Client
	config         *config.OperationAIConfig
	operation      string
	retrier        retrier
	circuitBreaker *Breaker[*openai.ChatCompletion]
	modelBreaker   *Breaker[*openai.Model]
	logger         *appErrors.Logger
}

var _ AIProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a new OpenAI provider instance for a specific operation
func NewOpenAIProvider(cfg *config.OperationAIConfig, operationType string, logger *appErrors.Logger) (*OpenAIProvider, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Retries are handled by executeWithRetry
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout != nil {
		opts = append(opts, option.WithRequestTimeout(*cfg.Timeout))
	}

	client := openai.NewClient(opts...)

	return &OpenAIProvider{
		client:         &client,
		config:         cfg,
		operation:      operationType,
		retrier:        newRetrier(*cfg.MaxRetries, logger),
		circuitBreaker: NewAICircuitBreaker[*openai.ChatCompletion](operationType, cfg, logger),
		modelBreaker:   NewModelCircuitBreaker[*openai.Model](operationType, cfg, logger),
		logger:         logger,
	}, nil
}

// GetModelInfo checks the readiness and availability of the configured model
func (o *OpenAIProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:     o.config.Model,
		Provider: "openai",
	}

	checkCtx, cancel := context.WithTimeout(ctx, modelCheckTimeout)
	defer cancel()

	model, err := o.modelBreaker.Execute(func() (*openai.Model, error) {
		return o.client.Models.Get(checkCtx, o.config.Model)
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		o.logger.Warn("Model availability check failed",
			"model", o.config.Model,
			"provider", o.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.ID
	modelInfo.Version = model.OwnedBy
	return modelInfo
}

// executeOpenAI runs one JSON-mode chat completion with tracing, circuit
// breaker and retries, and decodes the reply into Out.
func executeOpenAI[Out any](
	o *OpenAIProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("resumescreen.ai.openai")
	ctx, span := tracer.Start(ctx, "openai."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", o.config.Model),
		attribute.Float64("ai.temperature", float64(*o.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	var messages []openai.ChatCompletionMessageParamUnion
	if *o.config.UseSystemPrompts && systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	messages = append(messages, openai.UserMessage(userPrompt))

	params := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(o.config.Model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(float64(*o.config.Temperature)),
	}

	completion, err := o.circuitBreaker.Execute(func() (*openai.ChatCompletion, error) {
		return executeWithRetry(ctx, o.retrier, operationName, func() (*openai.ChatCompletion, error) {
			return o.client.Chat.Completions.New(ctx, params)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if len(completion.Choices) == 0 {
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed, "No response from OpenAI for "+operationName, nil)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, appErrors.NewAIError(appErrors.ErrCodeAIResponseParse, "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := &TokenUsage{
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
		TotalTokens:  completion.Usage.TotalTokens,
	}
	span.SetAttributes(
		attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
		attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
		attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		attribute.Bool("success", true),
	)
	return output, tokenUsage, nil
}

// ScoreSentiment implements AIProvider
func (o *OpenAIProvider) ScoreSentiment(ctx context.Context, input types.SentimentInput) (types.SentimentScore, *TokenUsage, error) {
	systemPrompt, userPrompt := buildPrompts(o.config, config.OperationSentiment, input.Text, "")
	output, tokenUsage, err := executeOpenAI[types.SentimentScore](o, ctx, "score_sentiment", userPrompt, systemPrompt,
		attribute.Int("input.text_length", len(input.Text)))
	if err != nil {
		return types.SentimentScore{}, nil, err
	}
	return output, tokenUsage, nil
}

// Translate implements AIProvider
func (o *OpenAIProvider) Translate(ctx context.Context, input types.TranslateInput) (types.TranslationResult, *TokenUsage, error) {
	systemPrompt, userPrompt := buildPrompts(o.config, config.OperationTranslate, input.Text, input.TargetLanguage)
	output, tokenUsage, err := executeOpenAI[types.TranslationResult](o, ctx, "translate", userPrompt, systemPrompt,
		attribute.Int("input.text_length", len(input.Text)),
		attribute.String("input.target_language", input.TargetLanguage))
	if err != nil {
		return types.TranslationResult{}, nil, err
	}
	output.TargetLanguage = input.TargetLanguage
	return output, tokenUsage, nil
}

// CheckGrammar implements AIProvider
func (o *OpenAIProvider) CheckGrammar(ctx context.Context, input types.GrammarCheckInput) (types.GrammarReport, *TokenUsage, error) {
	systemPrompt, userPrompt := buildPrompts(o.config, config.OperationGrammar, input.Text, input.Language)
	output, tokenUsage, err := executeOpenAI[types.GrammarReport](o, ctx, "check_grammar", userPrompt, systemPrompt,
		attribute.Int("input.text_length", len(input.Text)))
	if err != nil {
		return types.GrammarReport{}, nil, err
	}
	output.Language = input.Language
	if output.Issues == nil {
		output.Issues = []types.GrammarIssue{}
	}
	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (o *OpenAIProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    o.circuitBreaker.GetStats(),
		"model_operations": o.modelBreaker.GetStats(),
		"overall_healthy":  o.circuitBreaker.IsHealthy() && o.modelBreaker.IsHealthy(),
	}
}

// Close implements AIProvider
func (o *OpenAIProvider) Close() error {
	return nil
}
