// Package logger provides structured logging on top of zerolog.
//
// Development environments get a colored console writer; every other
// environment logs one JSON object per line. Loggers are scoped with
// WithComponent and enriched per request with WithContext, which picks up
// the request id and the active trace/span ids.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("ffmpeg")
//	log.Info("extraction finished", logger.Fields("bytes", n))
package logger
