package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	appErrors "resumescreen/internal/errors"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func fastRetrier(maxRetries int) retrier {
	r := newRetrier(maxRetries, appErrors.NewNopLogger())
	r.baseDelay = time.Millisecond
	return r
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("bad request"), false},
		{"network error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, true},
		{"wrapped network error", fmt.Errorf("call: %w", &net.DNSError{IsTimeout: true}), true},
		{"google 503", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"google 429", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"google 400", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"openai 500", &openai.Error{StatusCode: http.StatusInternalServerError}, true},
		{"openai 401", &openai.Error{StatusCode: http.StatusUnauthorized}, false},
		{"context canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}

func TestExecuteWithRetrySucceedsAfterRetryableFailure(t *testing.T) {
	calls := 0
	got, err := executeWithRetry(context.Background(), fastRetrier(3), "translate", func() (string, error) {
		calls++
		if calls < 3 {
			return "", &googleapi.Error{Code: http.StatusServiceUnavailable}
		}
		return "done", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "done", got)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := &googleapi.Error{Code: http.StatusBadRequest}
	_, err := executeWithRetry(context.Background(), fastRetrier(3), "grammar", func() (int, error) {
		calls++
		return 0, permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetryGivesUp(t *testing.T) {
	calls := 0
	_, err := executeWithRetry(context.Background(), fastRetrier(2), "sentiment", func() (int, error) {
		calls++
		return 0, &googleapi.Error{Code: http.StatusTooManyRequests}
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 2 retries")
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := newRetrier(5, appErrors.NewNopLogger())

	calls := 0
	_, err := executeWithRetry(ctx, r, "translate", func() (int, error) {
		calls++
		cancel()
		return 0, &googleapi.Error{Code: http.StatusBadGateway}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestBackoffIsCapped(t *testing.T) {
	r := newRetrier(10, appErrors.NewNopLogger())

	assert.GreaterOrEqual(t, r.backoff(1), time.Second)
	assert.Less(t, r.backoff(1), 1100*time.Millisecond+time.Millisecond)
	assert.Equal(t, maxBackoff, r.backoff(10))
}
