package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"resumescreen/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func allMetricsOn() config.CustomMetricsConfig {
	return config.CustomMetricsConfig{
		AIOperations: config.AIOperationsMetricsConfig{Enabled: true, TrackDuration: true, TrackTokenUsage: true},
		Screening:    config.ScreeningMetricsConfig{Enabled: true, TrackExtraction: true, TrackScores: true},
		Infrastructure: config.InfrastructureMetricsConfig{
			Enabled: true, TrackRateLimits: true, TrackCatalogReloads: true,
		},
	}
}

func newTestMetrics(t *testing.T, settings config.CustomMetricsConfig) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewMetrics(provider.Meter("test"), settings)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestTrackAIOperationWithTokens(t *testing.T) {
	m, reader := newTestMetrics(t, allMetricsOn())
	ctx := context.Background()

	err := m.TrackAIOperationWithTokens(ctx, "translate", func(context.Context) *AIOperationResult {
		return &AIOperationResult{TokenUsage: &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}}
	})
	require.NoError(t, err)

	boom := errors.New("quota exceeded")
	err = m.TrackAIOperationWithTokens(ctx, "translate", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: boom}
	})
	assert.ErrorIs(t, err, boom)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["resumescreen_ai_requests_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["resumescreen_ai_errors_total"]))

	tokens, ok := got["resumescreen_ai_token_usage_total"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	assert.Len(t, tokens.DataPoints, 3)
}

func TestTrackAIOperationDisabled(t *testing.T) {
	m, reader := newTestMetrics(t, config.CustomMetricsConfig{})

	called := false
	err := m.TrackAIOperationWithTokens(context.Background(), "grammar", func(context.Context) *AIOperationResult {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.NotContains(t, collect(t, reader), "resumescreen_ai_requests_total")
}

func TestScreeningMetrics(t *testing.T) {
	m, reader := newTestMetrics(t, allMetricsOn())
	ctx := context.Background()

	m.RecordExtraction(ctx, "pdf", "ocr", 3, 2*time.Second, nil)
	m.RecordExtraction(ctx, "png", "ocr", 1, time.Second, errors.New("tesseract failed"))
	m.RecordScreening(ctx, 75, "needs_improvement")
	m.RecordCoverLetter(ctx, true)
	m.RecordRateLimitHit(ctx, "ip", "/screen")
	m.RecordCatalogReload(ctx, nil)

	got := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, got["resumescreen_documents_extracted_total"]))
	assert.Equal(t, int64(4), sumOf(t, got["resumescreen_pages_processed_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["resumescreen_resumes_screened_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["resumescreen_cover_letters_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["resumescreen_rate_limit_hits_total"]))
	assert.Equal(t, int64(1), sumOf(t, got["resumescreen_catalog_reloads_total"]))

	scores, ok := got["resumescreen_match_score"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, scores.DataPoints, 1)
	assert.Equal(t, int64(75), scores.DataPoints[0].Sum)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordExtraction(ctx, "pdf", "ocr", 1, time.Second, nil)
		m.RecordScreening(ctx, 10, "weak")
		m.RecordCoverLetter(ctx, false)
		m.RecordRateLimitHit(ctx, "ip", "/screen")
		m.RecordCatalogReload(ctx, nil)
	})

	err := m.TrackAIOperationWithTokens(ctx, "sentiment", func(context.Context) *AIOperationResult {
		return &AIOperationResult{Error: errors.New("down")}
	})
	assert.Error(t, err)
}

func TestDisabledManager(t *testing.T) {
	om, err := NewObservabilityManager(ObservabilityConfig{Enabled: false}, nil)
	require.NoError(t, err)

	assert.Nil(t, om.GetMetrics())
	assert.NotNil(t, om.Tracer("test"))
	assert.NoError(t, om.Shutdown(context.Background()))

	handler := om.HTTPMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestPrometheusExporterServesRegistry(t *testing.T) {
	reader, mux, err := SetupPrometheusExporter(PrometheusConfig{Enabled: true, Endpoint: "/metrics"})
	require.NoError(t, err)
	require.NotNil(t, mux)

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := NewMetrics(provider.Meter("test"), allMetricsOn())
	require.NoError(t, err)
	m.RecordCoverLetter(context.Background(), true)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resumescreen_cover_letters_total")
}
