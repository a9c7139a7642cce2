package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNetwork indicates the upstream could not be reached
	ErrorTypeNetwork ErrorType = "NETWORK"

	// ErrorTypeUpstreamStatus indicates the upstream answered with a non-2xx status
	ErrorTypeUpstreamStatus ErrorType = "UPSTREAM_STATUS"

	// ErrorTypeDecode indicates the upstream body was not a valid feedback list
	ErrorTypeDecode ErrorType = "DECODE"

	// ErrorTypeRender indicates a failure while building table rows or the chart
	ErrorTypeRender ErrorType = "RENDER"

	// ErrorTypeValidation indicates invalid input or configuration
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNetwork,
		Message: message,
		Err:     err,
	}
}

// NewUpstreamStatusError creates an error for a non-2xx upstream response
func NewUpstreamStatusError(message string, statusCode int) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstreamStatus,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewDecodeError creates a new decode error
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeDecode,
		Message: message,
		Err:     err,
	}
}

// NewRenderError creates a new render error
func NewRenderError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRender,
		Message: message,
		Err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the type of the first AppError in err's chain, or
// ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsRetryable reports whether err is worth another attempt: network failures
// and 5xx/429 upstream answers are, everything else is not.
func IsRetryable(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	switch appErr.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeUpstreamStatus:
		return appErr.StatusCode >= http.StatusInternalServerError ||
			appErr.StatusCode == http.StatusTooManyRequests
	default:
		return false
	}
}
