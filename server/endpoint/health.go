package endpoint

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mediascribe/component"
)

// Health answers the liveness probe. It never inspects dependencies.
func Health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// HealthChecker returns the health of the registered components.
type HealthChecker func(ctx context.Context) []component.Health

// Readiness reports component health. Degraded components (ffmpeg missing)
// keep the service ready since audio uploads still work; any unhealthy
// component answers 503.
func Readiness(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ready"
		httpStatus := http.StatusOK
		var components []component.Health

		if checker != nil {
			components = checker(c.Request.Context())
			for _, ch := range components {
				if ch.Status == component.StatusUnhealthy {
					status = "not_ready"
					httpStatus = http.StatusServiceUnavailable
					break
				}
			}
		}

		c.JSON(httpStatus, gin.H{
			"status":     status,
			"components": components,
		})
	}
}
