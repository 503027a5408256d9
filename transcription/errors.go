package transcription

import (
	"fmt"
	"net/http"

	"github.com/kbukum/mediascribe/errors"
	"github.com/kbukum/mediascribe/logger"
)

// ClassifyStatus maps a non-2xx status of the speech API to an AppError.
// 429 counts as unavailability: the request was fine, the service was not.
func ClassifyStatus(status int, cause error) *errors.AppError {
	if cause == nil {
		cause = fmt.Errorf("HTTP %d", status)
	}
	var appErr *errors.AppError
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		appErr = errors.UpstreamAuth(cause)
	case status == http.StatusTooManyRequests:
		appErr = errors.UpstreamUnavailable(cause)
	case status >= 400 && status < 500:
		appErr = errors.InvalidInput("rejected by transcription service").WithCause(cause)
	default:
		appErr = errors.UpstreamFailed(cause)
	}
	return appErr.WithDetail(logger.FieldUpstreamStatus, status)
}
