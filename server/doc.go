// Package server runs the mediascribe HTTP API on Gin, served over HTTP/1.1
// and cleartext HTTP/2 (h2c).
//
// Server-wide middleware (server/middleware) wraps the engine: panic
// recovery, request ids, optional CORS and request logging. POST /transcribe
// additionally gets the upload size cap and the in-flight bulkhead.
//
//	srv := server.New(cfg.Server, log)
//	srv.ApplyMiddleware()
//	srv.RegisterRoutes("mediascribe", svc, registry.HealthAll)
//	registry.Register(server.NewComponent(srv))
package server
