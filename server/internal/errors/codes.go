// Package errors defines the typed failure taxonomy shared by the chat and
// Steam services.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure for transport-level mapping.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeUnauthorized indicates authentication failure against an upstream service.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimitExceeded indicates an upstream rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeNotFound indicates the requested record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeServiceUnavailable indicates a required credential or service is not configured.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeInternal indicates an unclassified failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// ServiceError is a structured error carrying a code, a user-facing message
// and an optional remediation hint.
type ServiceError struct {
	Code    ErrorCode
	Message string
	Hint    string
	Cause   error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// WithHint attaches a remediation hint shown to the caller.
func (e *ServiceError) WithHint(hint string) *ServiceError {
	e.Hint = hint
	return e
}

// WithCause attaches the underlying cause.
func (e *ServiceError) WithCause(cause error) *ServiceError {
	e.Cause = cause
	return e
}

// InvalidArgument creates an invalid-argument error.
func InvalidArgument(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeInvalidArgument, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeUnauthorized, Message: msg}
}

// RateLimitExceeded creates a rate-limit error.
func RateLimitExceeded(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// NotFound creates a not-found error.
func NotFound(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeNotFound, Message: msg}
}

// ServiceUnavailable creates a service-unavailable error.
func ServiceUnavailable(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeServiceUnavailable, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *ServiceError {
	return &ServiceError{Code: ErrCodeInternal, Message: msg}
}

// CodeOf extracts the error code from err, or ErrCodeInternal for
// unclassified errors.
func CodeOf(err error) ErrorCode {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// HintOf extracts the remediation hint from err, if any.
func HintOf(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Hint
	}
	return ""
}
