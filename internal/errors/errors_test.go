package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	cause := stderrors.New("boom")

	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError(ErrCodeInvalidRequest, "bad input", nil),
			want: "INVALID_REQUEST: bad input",
		},
		{
			name: "with cause",
			err:  NewExtractionError(ErrCodeOCRFailed, "ocr failed", cause),
			want: "OCR_FAILED: ocr failed (caused by: boom)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestTypeOfFollowsWrapping(t *testing.T) {
	base := NewNoTextError("empty document")
	wrapped := fmt.Errorf("screening: %w", base)

	assert.Equal(t, ErrorTypeNoText, TypeOf(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeNoText))
	assert.False(t, IsType(wrapped, ErrorTypeExtraction))
	assert.False(t, IsType(nil, ErrorTypeNoText))
	assert.Equal(t, ErrorType(""), TypeOf(stderrors.New("plain")))
}

func TestIncompleteInputCarriesFields(t *testing.T) {
	err := NewIncompleteInputError([]string{"Name", "Skills"})

	assert.Equal(t, ErrorTypeIncompleteInput, err.Type)
	assert.Equal(t, ErrCodeIncompleteInput, err.Code)
	assert.Contains(t, err.Message, "Name, Skills")
	assert.Equal(t, []string{"Name", "Skills"}, MissingFields(err))
	assert.Nil(t, MissingFields(NewNoTextError("x")))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root")
	err := NewIOError(ErrCodeFileNotReadable, "read", cause)
	assert.True(t, stderrors.Is(err, cause))
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			logger, err := New(level)
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}

	_, err := New("verbose")
	assert.Error(t, err)
}

func TestNopLoggerAcceptsAppErrors(t *testing.T) {
	logger := NewNopLogger()
	err := NewExtractionError(ErrCodeExtractionFailed, "x", nil).WithContext("file", "cv.pdf")

	assert.NotPanics(t, func() {
		logger.LogError(err, "failed", "k", "v")
		logger.LogError(stderrors.New("plain"), "failed")
		logger.With("request_id", "abc").Info("hello")
	})
}
