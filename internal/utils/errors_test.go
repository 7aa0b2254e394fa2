package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Message: "test error message",
	}

	assert.Equal(t, "test error message", err.Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("validation failed")

	assert.Error(t, err)
	assert.Equal(t, "validation failed", err.Error())

	// Check that it's the correct type
	validationErr, ok := err.(*ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "validation failed", validationErr.Message)
}

func TestNewValidationErrorf(t *testing.T) {
	err := NewValidationErrorf("invalid ticker symbol %q", "toolong")

	assert.Error(t, err)
	assert.Equal(t, `invalid ticker symbol "toolong"`, err.Error())
}

func TestStockDataError_Wrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStockDataError("fetch failed for AAPL", cause)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fetch failed for AAPL")
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)

	var stockErr *StockDataError
	assert.True(t, errors.As(err, &stockErr))
}

func TestAPIError_WithoutCause(t *testing.T) {
	err := NewAPIError("model returned empty response", nil)

	assert.Equal(t, "model returned empty response", err.Error())

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Nil(t, apiErr.Unwrap())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation keeps its message",
			err:  NewValidationError(`invalid ticker symbol "aa pl"`),
			want: `invalid ticker symbol "aa pl"`,
		},
		{
			name: "stock data maps to fixed sentence",
			err:  NewStockDataError("no data for XYZ", nil),
			want: "Unable to retrieve stock data. Please check the stock symbol and try again.",
		},
		{
			name: "api maps to fixed sentence",
			err:  NewAPIError("timeout", errors.New("deadline exceeded")),
			want: "The analysis service is currently unavailable. Please try again later.",
		},
		{
			name: "unknown maps to generic sentence",
			err:  errors.New("index out of range"),
			want: "Something went wrong. The details have been logged.",
		},
		{
			name: "wrapped taxonomy error still recognized",
			err:  fmt.Errorf("analyze: %w", NewStockDataError("empty series", nil)),
			want: "Unable to retrieve stock data. Please check the stock symbol and try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestClassify(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, Classify(logger, "analyze", nil))
	})

	t.Run("taxonomy error unchanged", func(t *testing.T) {
		original := NewStockDataError("empty series", nil)
		classified := Classify(logger, "fetch", original)
		assert.Equal(t, original, classified)
	})

	t.Run("unknown becomes internal", func(t *testing.T) {
		classified := Classify(logger, "analyze", errors.New("boom"))

		var internalErr *InternalError
		assert.True(t, errors.As(classified, &internalErr))
		assert.Contains(t, classified.Error(), "analyze")
		assert.Contains(t, classified.Error(), "boom")
	})
}
