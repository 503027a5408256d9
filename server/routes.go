package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mediascribe/errors"
	"github.com/kbukum/mediascribe/resilience"
	"github.com/kbukum/mediascribe/server/endpoint"
	"github.com/kbukum/mediascribe/server/middleware"
)

// RegisterRoutes mounts the mediascribe API:
//
//	POST /transcribe  body cap, then a bulkhead slot, then the pipeline
//	GET  /health      liveness
//	GET  /ready       component health
//	GET  /version     build info
func (s *Server) RegisterRoutes(serviceName string, svc endpoint.Transcriber, checker endpoint.HealthChecker) {
	slots := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "transcribe",
		MaxConcurrent: s.config.MaxConcurrent,
		MaxWait:       s.config.QueueTimeout,
	})

	s.engine.POST("/transcribe",
		middleware.GinWrap(middleware.BodySizeLimit(s.config.UploadLimit())),
		middleware.GinWrap(middleware.ConcurrencyLimit(slots, s.log)),
		endpoint.Transcribe(svc, s.log),
	)
	s.engine.GET("/health", endpoint.Health())
	s.engine.GET("/ready", endpoint.Readiness(checker))
	s.engine.GET("/version", endpoint.Version(serviceName))

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errors.ErrorResponse{Error: "not found"})
	})
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errors.ErrorResponse{Error: "method not allowed"})
	})
}
