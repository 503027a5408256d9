package errors

// ErrorCode is the machine-readable kind of a pipeline failure.
type ErrorCode string

// Input errors
const (
	// ErrCodeUnsupportedFormat indicates the upload is neither audio nor video.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeInvalidInput indicates the upload or request parameters are unusable.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Extraction errors
const (
	// ErrCodeExtractionUnavailable indicates the media binary is missing or not executable.
	ErrCodeExtractionUnavailable ErrorCode = "EXTRACTION_UNAVAILABLE"
	// ErrCodeExtractionFailed indicates the media binary ran but produced no usable audio.
	ErrCodeExtractionFailed ErrorCode = "EXTRACTION_FAILED"
	// ErrCodeExtractionTimeout indicates the media binary exceeded its time budget.
	ErrCodeExtractionTimeout ErrorCode = "EXTRACTION_TIMEOUT"
)

// Upstream errors
const (
	// ErrCodeUpstreamUnavailable indicates the speech API could not be reached.
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// ErrCodeUpstreamAuth indicates the speech API rejected the configured credentials.
	ErrCodeUpstreamAuth ErrorCode = "UPSTREAM_AUTH_ERROR"
	// ErrCodeUpstreamFailed indicates the speech API failed or answered with garbage.
	ErrCodeUpstreamFailed ErrorCode = "UPSTREAM_FAILED"
)

// ErrCodeInternal marks failures outside the taxonomy (bugs, panics).
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

var retryableCodes = map[ErrorCode]bool{
	ErrCodeExtractionTimeout:   true,
	ErrCodeUpstreamUnavailable: true,
	ErrCodeUpstreamFailed:      true,
}

// IsRetryableCode reports whether a caller may reasonably resubmit the same request.
// The service itself never retries.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
