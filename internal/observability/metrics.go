package observability

import (
	"context"
	"fmt"
	"time"

	"resumescreen/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Metrics holds all custom metrics. A nil *Metrics records nothing, so
// callers never need to check whether observability is on.
type Metrics struct {
	settings config.CustomMetricsConfig

	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	// Screening metrics
	DocumentsExtracted metric.Int64Counter
	ExtractionDuration metric.Float64Histogram
	PagesProcessed     metric.Int64Counter
	MatchScore         metric.Int64Histogram
	ResumesScreened    metric.Int64Counter
	CoverLetters       metric.Int64Counter

	// Infrastructure metrics
	RateLimitHits  metric.Int64Counter
	CatalogReloads metric.Int64Counter
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// NewMetrics creates every instrument on meter.
func NewMetrics(meter metric.Meter, settings config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{settings: settings}
	var err error

	if m.AIProcessingTime, err = meter.Float64Histogram(
		"resumescreen_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI processing time metric: %w", err)
	}
	if m.AIRequestCount, err = meter.Int64Counter(
		"resumescreen_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI request count metric: %w", err)
	}
	if m.AIErrorCount, err = meter.Int64Counter(
		"resumescreen_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI error count metric: %w", err)
	}
	if m.AITokenUsage, err = meter.Int64Histogram(
		"resumescreen_ai_token_usage_total",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	if m.DocumentsExtracted, err = meter.Int64Counter(
		"resumescreen_documents_extracted_total",
		metric.WithDescription("Total number of documents run through text extraction"),
	); err != nil {
		return nil, fmt.Errorf("failed to create documents extracted metric: %w", err)
	}
	if m.ExtractionDuration, err = meter.Float64Histogram(
		"resumescreen_extraction_duration_seconds",
		metric.WithDescription("Time spent extracting text from a document"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create extraction duration metric: %w", err)
	}
	if m.PagesProcessed, err = meter.Int64Counter(
		"resumescreen_pages_processed_total",
		metric.WithDescription("Total number of document pages processed"),
	); err != nil {
		return nil, fmt.Errorf("failed to create pages processed metric: %w", err)
	}
	if m.MatchScore, err = meter.Int64Histogram(
		"resumescreen_match_score",
		metric.WithDescription("Keyword match score of screened resumes"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create match score metric: %w", err)
	}
	if m.ResumesScreened, err = meter.Int64Counter(
		"resumescreen_resumes_screened_total",
		metric.WithDescription("Total number of resumes screened"),
	); err != nil {
		return nil, fmt.Errorf("failed to create resumes screened metric: %w", err)
	}
	if m.CoverLetters, err = meter.Int64Counter(
		"resumescreen_cover_letters_total",
		metric.WithDescription("Total number of cover letter requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create cover letters metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumescreen_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}
	if m.CatalogReloads, err = meter.Int64Counter(
		"resumescreen_catalog_reloads_total",
		metric.WithDescription("Total number of skill catalog reloads"),
	); err != nil {
		return nil, fmt.Errorf("failed to create catalog reloads metric: %w", err)
	}

	return m, nil
}

// TrackAIOperationWithTokens instruments an AI operation with tracing, metrics, and token usage
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult) error {
	if m == nil || !m.settings.AIOperations.Enabled {
		result := fn(ctx)
		if result != nil {
			return result.Error
		}
		return nil
	}

	tracer := otel.Tracer("resumescreen.ai")
	ctx, span := tracer.Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	duration := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if m.settings.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration, metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}
	if result != nil && result.TokenUsage != nil {
		m.recordTokenUsage(ctx, span, result.TokenUsage, attrs)
	}

	span.SetAttributes(attrs...)
	return err
}

// recordTokenUsage records token usage metrics and span attributes
func (m *Metrics) recordTokenUsage(ctx context.Context, span oteltrace.Span, usage *TokenUsage, attrs []attribute.KeyValue) {
	if m.settings.AIOperations.TrackTokenUsage {
		tokenTypes := []struct {
			tokenType string
			value     int64
		}{
			{"input", usage.InputTokens},
			{"output", usage.OutputTokens},
			{"total", usage.TotalTokens},
		}
		for _, tt := range tokenTypes {
			tokenAttrs := append(append([]attribute.KeyValue{}, attrs...), attribute.String("token_type", tt.tokenType))
			m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(tokenAttrs...))
		}
	}

	// Always on the span, for debugging
	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

// RecordExtraction records one document extraction attempt.
func (m *Metrics) RecordExtraction(ctx context.Context, format, method string, pages int, duration time.Duration, err error) {
	if m == nil || !m.settings.Screening.Enabled || !m.settings.Screening.TrackExtraction {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("format", format),
		attribute.String("method", method),
		attribute.Bool("success", err == nil),
	)
	m.DocumentsExtracted.Add(ctx, 1, attrs)
	m.ExtractionDuration.Record(ctx, duration.Seconds(), attrs)
	if pages > 0 {
		m.PagesProcessed.Add(ctx, int64(pages), attrs)
	}
}

// RecordScreening records a completed screening and its match score.
func (m *Metrics) RecordScreening(ctx context.Context, score int, verdict string) {
	if m == nil || !m.settings.Screening.Enabled {
		return
	}
	attrs := metric.WithAttributes(attribute.String("verdict", verdict))
	m.ResumesScreened.Add(ctx, 1, attrs)
	if m.settings.Screening.TrackScores {
		m.MatchScore.Record(ctx, int64(score), attrs)
	}
}

// RecordCoverLetter records a cover letter request.
func (m *Metrics) RecordCoverLetter(ctx context.Context, success bool) {
	if m == nil || !m.settings.Screening.Enabled {
		return
	}
	m.CoverLetters.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limiter, endpoint string) {
	if m == nil || !m.settings.Infrastructure.Enabled || !m.settings.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(
		attribute.String("limiter", limiter),
		attribute.String("endpoint", endpoint),
	))
}

// RecordCatalogReload records a skill catalog reload attempt.
func (m *Metrics) RecordCatalogReload(ctx context.Context, err error) {
	if m == nil || !m.settings.Infrastructure.Enabled || !m.settings.Infrastructure.TrackCatalogReloads {
		return
	}
	m.CatalogReloads.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", err == nil)))
}
