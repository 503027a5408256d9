// Package observability wires OpenTelemetry tracing and metrics for the
// transcription pipeline.
//
// Setup installs OTLP/HTTP exporters when enabled and leaves the global
// no-op providers in place otherwise, so instrumented code never checks.
//
//	shutdown, err := observability.Setup(ctx, cfg, observability.Service{Name: "mediascribe"}, log)
//	defer shutdown(context.Background())
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanExtract)
//	defer span.End()
//
//	metrics, err := observability.NewPipelineMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordStage(ctx, observability.StageExtract, "ok", elapsed)
package observability
