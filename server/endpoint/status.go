package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mediascribe/errors"
)

// StatusFor maps an error code to the HTTP status answered to clients.
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case errors.ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway
	case errors.ErrCodeExtractionUnavailable, errors.ErrCodeExtractionTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the failure envelope for err.
func RespondError(c *gin.Context, err error) {
	appErr := errors.Wrap(err)
	c.AbortWithStatusJSON(StatusFor(appErr.Code), appErr.ToResponse())
}
