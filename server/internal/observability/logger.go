// Package observability provides request-scoped structured logging helpers.
package observability

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldRequestID is the field name for request ID.
	LogFieldRequestID = "request_id"
	// LogFieldSessionUID is the field name for chat session UID.
	LogFieldSessionUID = "session_uid"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldMessageLen is the field name for message length.
	LogFieldMessageLen = "message_length"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
)

// RequestContext carries per-request logging state.
type RequestContext struct {
	RequestID string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewRequestContext creates a request context with a generated request ID.
func NewRequestContext(logger *slog.Logger) *RequestContext {
	rc := &RequestContext{
		RequestID: uuid.New().String()[:8],
		StartTime: time.Now(),
		Logger:    logger,
	}
	rc.Logger = logger.With(LogFieldRequestID, rc.RequestID)
	return rc
}

// DurationMs returns the elapsed time since the request started, in
// milliseconds.
func (rc *RequestContext) DurationMs() int64 {
	return time.Since(rc.StartTime).Milliseconds()
}
