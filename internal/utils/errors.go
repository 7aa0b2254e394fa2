package utils

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ValidationError represents an error occurring during user input validation.
type ValidationError struct {
	Message string
}

// Error returns the error message string.
func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError with a specific message.
func NewValidationError(message string) error {
	return &ValidationError{
		Message: message,
	}
}

// NewValidationErrorf creates a new ValidationError with a formatted message.
func NewValidationErrorf(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// StockDataError represents a failed or empty upstream market data fetch.
type StockDataError struct {
	Message string
	Err     error
}

// Error returns the error message string.
func (e *StockDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *StockDataError) Unwrap() error {
	return e.Err
}

// NewStockDataError creates a new StockDataError wrapping an optional cause.
func NewStockDataError(message string, err error) error {
	return &StockDataError{Message: message, Err: err}
}

// APIError represents a failed call to an external API, such as the
// language model used for narrative reports.
type APIError struct {
	Message string
	Err     error
}

// Error returns the error message string.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError wrapping an optional cause.
func NewAPIError(message string, err error) error {
	return &APIError{Message: message, Err: err}
}

// InternalError is the catch-all for unexpected failures inside the
// application itself.
type InternalError struct {
	Message string
	Err     error
}

// Error returns the error message string.
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *InternalError) Unwrap() error {
	return e.Err
}

// NewInternalError creates a new InternalError wrapping an optional cause.
func NewInternalError(message string, err error) error {
	return &InternalError{Message: message, Err: err}
}

// User-facing sentences, one per error kind. Technical detail stays in the
// logs; these are the only strings shown to the caller.
const (
	userMsgStockData = "Unable to retrieve stock data. Please check the stock symbol and try again."
	userMsgAPI       = "The analysis service is currently unavailable. Please try again later."
	userMsgInternal  = "Something went wrong. The details have been logged."
)

// UserMessage maps an error to its user-presentable sentence. Validation
// errors keep their message because it names the offending input; every
// other kind maps to a fixed sentence.
func UserMessage(err error) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var stockErr *StockDataError
	if errors.As(err, &stockErr) {
		return userMsgStockData
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return userMsgAPI
	}
	return userMsgInternal
}

// IsKnown reports whether err belongs to the closed error taxonomy.
func IsKnown(err error) bool {
	var validationErr *ValidationError
	var stockErr *StockDataError
	var apiErr *APIError
	var internalErr *InternalError
	return errors.As(err, &validationErr) ||
		errors.As(err, &stockErr) ||
		errors.As(err, &apiErr) ||
		errors.As(err, &internalErr)
}

// Classify logs the technical detail of err under the given operation name
// and returns an error from the closed taxonomy. Errors already in the
// taxonomy pass through unchanged; anything else becomes an InternalError.
func Classify(logger *logrus.Logger, operation string, err error) error {
	if err == nil {
		return nil
	}
	if logger != nil {
		logger.WithFields(logrus.Fields{
			"operation": operation,
			"error":     err.Error(),
		}).Error("operation failed")
	}
	if IsKnown(err) {
		return err
	}
	return NewInternalError(fmt.Sprintf("unexpected error in %s", operation), err)
}
