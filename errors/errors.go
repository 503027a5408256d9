package errors

import (
	"fmt"
)

// AppError is the typed failure returned by every pipeline stage.
type AppError struct {
	// Code is the machine-readable error kind.
	Code ErrorCode `json:"code"`
	// Message is a short client-safe message.
	Message string `json:"message"`
	// Retryable indicates the caller may resubmit.
	Retryable bool `json:"retryable"`
	// Details carries log-only context (stage, exit code, upstream status).
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error. Never shown to clients.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Input ---

// UnsupportedFormat is returned when an upload is neither audio nor video.
func UnsupportedFormat() *AppError {
	return New(ErrCodeUnsupportedFormat, "unsupported format")
}

// InvalidInput is returned for unusable uploads or request parameters.
func InvalidInput(reason string) *AppError {
	if reason == "" {
		return New(ErrCodeInvalidInput, "invalid input")
	}
	return New(ErrCodeInvalidInput, "invalid input: "+reason)
}

// --- Extraction ---

// ExtractionUnavailable is returned when the media binary cannot be started.
func ExtractionUnavailable(cause error) *AppError {
	return New(ErrCodeExtractionUnavailable, "audio extraction unavailable").WithCause(cause)
}

// ExtractionFailed is returned when the media binary produced no usable audio.
func ExtractionFailed(cause error) *AppError {
	return New(ErrCodeExtractionFailed, "audio extraction failed").WithCause(cause)
}

// ExtractionTimeout is returned when the media binary exceeded its time budget.
func ExtractionTimeout(cause error) *AppError {
	return New(ErrCodeExtractionTimeout, "audio extraction timed out").WithCause(cause)
}

// --- Upstream ---

// UpstreamUnavailable is returned when the speech API cannot be reached in time.
func UpstreamUnavailable(cause error) *AppError {
	return New(ErrCodeUpstreamUnavailable, "transcription service unavailable").WithCause(cause)
}

// UpstreamAuth is returned when the speech API rejects the credentials.
func UpstreamAuth(cause error) *AppError {
	return New(ErrCodeUpstreamAuth, "transcription service rejected credentials").WithCause(cause)
}

// UpstreamFailed is returned for upstream server errors and malformed responses.
func UpstreamFailed(cause error) *AppError {
	return New(ErrCodeUpstreamFailed, "transcription failed").WithCause(cause)
}

// Internal wraps an error that does not belong to the taxonomy.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "internal error").WithCause(cause)
}
