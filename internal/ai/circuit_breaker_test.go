package ai

import (
	"errors"
	"testing"
	"time"

	"resumescreen/internal/config"

	"github.com/sony/gobreaker/v2"
)

func breakerConfig(minRequests uint32, threshold float64) *config.OperationAIConfig {
	return &config.OperationAIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      minRequests,
			FailureThreshold: threshold,
		},
	}
}

func TestIndependentCircuitBreakerConfigurations(t *testing.T) {
	sentimentCB := NewAICircuitBreaker[string](config.OperationSentiment, breakerConfig(3, 0.6), nil)
	translateCB := NewAICircuitBreaker[string](config.OperationTranslate, breakerConfig(2, 0.7), nil)
	grammarCB := NewAICircuitBreaker[string](config.OperationGrammar, breakerConfig(5, 0.5), nil)

	tests := []struct {
		name string
		cb   *Breaker[string]
		want string
	}{
		{"Sentiment", sentimentCB, "AI-sentiment"},
		{"Translate", translateCB, "AI-translate"},
		{"Grammar", grammarCB, "AI-grammar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := tt.cb.GetStats()

			name, ok := stats["name"].(string)
			if !ok {
				t.Fatal("Circuit breaker name not found")
			}
			if name != tt.want {
				t.Errorf("Expected circuit breaker name '%s', got '%s'", tt.want, name)
			}

			state, ok := stats["state"].(string)
			if !ok {
				t.Fatal("Circuit breaker state not found")
			}
			if state != "closed" {
				t.Errorf("Expected initial state 'closed', got '%s'", state)
			}

			if !tt.cb.IsHealthy() {
				t.Error("Circuit breaker should be healthy initially")
			}
		})
	}

	t.Run("IndependentInstances", func(t *testing.T) {
		if sentimentCB == translateCB || translateCB == grammarCB || sentimentCB == grammarCB {
			t.Error("Each operation should get its own circuit breaker")
		}
	})
}

func TestCircuitBreakerTrips(t *testing.T) {
	cb := NewAICircuitBreaker[string]("Trip", breakerConfig(2, 0.5), nil)
	boom := errors.New("upstream down")

	for range 2 {
		if _, err := cb.Execute(func() (string, error) { return "", boom }); !errors.Is(err, boom) {
			t.Fatalf("Expected upstream error, got %v", err)
		}
	}

	if cb.IsHealthy() {
		t.Fatal("Circuit breaker should be open after repeated failures")
	}

	called := false
	_, err := cb.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected open state error, got %v", err)
	}
	if called {
		t.Error("Open circuit breaker should not call the function")
	}
}

func TestModelCircuitBreakerIsLenient(t *testing.T) {
	cb := NewModelCircuitBreaker[int]("Model", breakerConfig(1, 0.1), nil)
	boom := errors.New("not found")

	for range 4 {
		_, _ = cb.Execute(func() (int, error) { return 0, boom })
	}
	if !cb.IsHealthy() {
		t.Error("Model breaker should stay closed below five requests")
	}

	stats := cb.GetStats()
	if stats["name"] != "AI-Model-Model" {
		t.Errorf("Unexpected model breaker name %v", stats["name"])
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	disabledConfig := &config.OperationAIConfig{
		Provider:       "gemini",
		Model:          "test-model",
		CircuitBreaker: config.CircuitBreakerConfig{Enabled: false},
	}

	cb := NewAICircuitBreaker[string]("Disabled", disabledConfig, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker passes calls through
	got, err := cb.Execute(func() (string, error) { return "direct", nil })
	if err != nil || got != "direct" {
		t.Errorf("Expected pass-through result, got %q, %v", got, err)
	}
	if !cb.IsHealthy() {
		t.Error("Nil circuit breaker should report healthy")
	}
	if enabled, _ := cb.GetStats()["enabled"].(bool); enabled {
		t.Error("Nil circuit breaker should report disabled")
	}
}
