package observability

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/kbukum/mediascribe/logger"
)

// Service describes the process for resource attributes.
type Service struct {
	Name        string
	Version     string
	Environment string
}

// ShutdownFunc flushes and stops the providers installed by Setup.
type ShutdownFunc func(ctx context.Context) error

// Setup installs tracer and meter providers when cfg.Enabled.
// The W3C propagator is installed either way.
func Setup(ctx context.Context, cfg Config, svc Service, log *logger.Logger) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	if !cfg.Enabled {
		log.Debug("observability export disabled")
		return func(context.Context) error { return nil }, nil
	}

	res := newResource(svc)
	tp, err := InitTracer(ctx, cfg, res)
	if err != nil {
		return nil, err
	}
	mp, err := InitMeter(ctx, cfg, res)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	log.Info("observability initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
		"metrics_interval", cfg.MetricsInterval.String(),
	))

	return func(ctx context.Context) error {
		var result *multierror.Error
		if err := tp.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("tracer shutdown: %w", err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("meter shutdown: %w", err))
		}
		return result.ErrorOrNil()
	}, nil
}

func newResource(svc Service) *resource.Resource {
	attrs := resource.NewSchemaless(
		semconv.ServiceName(svc.Name),
		semconv.ServiceVersion(svc.Version),
		attribute.String("environment", svc.Environment),
	)
	res, err := resource.Merge(resource.Default(), attrs)
	if err != nil {
		return attrs
	}
	return res
}
