// Package component defines the lifecycle contract shared by the long-lived
// parts of mediascribe: the HTTP server, the telemetry exporters and the
// ffmpeg extractor.
//
// Components are registered with a Registry, started in registration order
// and stopped in reverse. Components may also implement Describable and
// RouteProvider to appear in the startup summary.
package component
