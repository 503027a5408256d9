package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Pipeline stages, as recorded on metrics.
const (
	StageClassify = "classify"
	StageExtract  = "extract"
	StageUpstream = "upstream"
)

// OutcomeOK labels a successful stage or request.
const OutcomeOK = "ok"

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricsInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricsInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// PipelineMetrics holds the instruments of the transcription pipeline.
type PipelineMetrics struct {
	requestTotal    metric.Int64Counter
	requestActive   metric.Int64UpDownCounter
	requestDuration metric.Float64Histogram
	stageDuration   metric.Float64Histogram
	audioBytes      metric.Int64Histogram
}

// NewPipelineMetrics creates metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	requestTotal, err := meter.Int64Counter("transcription.requests",
		metric.WithDescription("Transcription requests by media kind and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.requests counter: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("transcription.requests.active",
		metric.WithDescription("Transcription requests in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.requests.active counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("transcription.request.duration",
		metric.WithDescription("End-to-end duration of transcription requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.request.duration histogram: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("transcription.stage.duration",
		metric.WithDescription("Duration of each pipeline stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.stage.duration histogram: %w", err)
	}

	audioBytes, err := meter.Int64Histogram("transcription.extracted.bytes",
		metric.WithDescription("Size of audio produced by extraction"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.extracted.bytes histogram: %w", err)
	}

	return &PipelineMetrics{
		requestTotal:    requestTotal,
		requestActive:   requestActive,
		requestDuration: requestDuration,
		stageDuration:   stageDuration,
		audioBytes:      audioBytes,
	}, nil
}

// RequestStarted increments the in-flight count.
func (m *PipelineMetrics) RequestStarted(ctx context.Context) {
	m.requestActive.Add(ctx, 1)
}

// RequestFinished decrements the in-flight count and records the outcome.
func (m *PipelineMetrics) RequestFinished(ctx context.Context, kind, outcome string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("media_kind", kind),
		attribute.String("outcome", outcome),
	)
	m.requestActive.Add(ctx, -1)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordStage records how long a stage took and how it ended.
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage, outcome string, d time.Duration) {
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("outcome", outcome),
	))
}

// RecordExtractedBytes records the size of extracted audio.
func (m *PipelineMetrics) RecordExtractedBytes(ctx context.Context, format string, n int64) {
	m.audioBytes.Record(ctx, n, metric.WithAttributes(attribute.String("format", format)))
}
