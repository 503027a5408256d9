package main

import (
	"context"
	"fmt"

	"github.com/kbukum/mediascribe/bootstrap"
	"github.com/kbukum/mediascribe/component"
	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/media"
	"github.com/kbukum/mediascribe/media/ffmpeg"
	"github.com/kbukum/mediascribe/observability"
	"github.com/kbukum/mediascribe/server"
	"github.com/kbukum/mediascribe/transcriber"
	"github.com/kbukum/mediascribe/transcription"
	"github.com/kbukum/mediascribe/transcription/openai"
	"github.com/kbukum/mediascribe/transcription/whisper"
)

type mediascribe struct {
	app     *bootstrap.App[*AppConfig]
	service *transcriber.Service
	server  *server.Server
}

// providers lists the transcription backends this binary ships.
func providers() *transcription.Registry {
	r := transcription.NewRegistry()
	r.Register(whisper.ProviderName, whisper.Factory)
	r.Register(openai.ProviderName, openai.Factory)
	return r
}

// newMediascribe wires the pipeline. withHTTP adds the HTTP server component.
func newMediascribe(cfg *AppConfig, withHTTP bool, opts ...bootstrap.Option) (*mediascribe, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	log := app.Logger

	extractor, err := ffmpeg.New(cfg.Extraction, log)
	if err != nil {
		return nil, fmt.Errorf("extraction: %w", err)
	}
	provider, err := providers().Create(cfg.Transcription, log)
	if err != nil {
		return nil, fmt.Errorf("transcription: %w", err)
	}
	metrics, err := observability.NewPipelineMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	svc := transcriber.New(
		media.NewClassifier(cfg.Media),
		extractor,
		provider,
		transcriber.WithLogger(log),
		transcriber.WithMetrics(metrics),
		transcriber.WithDefaultModel(cfg.Transcription.Model),
	)

	m := &mediascribe{app: app, service: svc}

	if err := app.RegisterComponent(telemetry(cfg, log)); err != nil {
		return nil, err
	}
	if err := app.RegisterComponent(ffmpeg.NewComponent(extractor)); err != nil {
		return nil, err
	}
	if withHTTP {
		m.server = server.New(cfg.Server, log)
		m.server.ApplyMiddleware()
		m.server.RegisterRoutes(cfg.Name, svc, app.Components.HealthAll)
		if err := app.RegisterComponent(server.NewComponent(m.server)); err != nil {
			return nil, err
		}
	}

	log.Debug("pipeline wired", logger.Fields(
		"backend", cfg.Transcription.Backend,
		"model", cfg.Transcription.Model,
		"format", cfg.Extraction.Format,
	))
	return m, nil
}

// telemetry installs the OTLP providers on start and flushes them on stop.
func telemetry(cfg *AppConfig, log *logger.Logger) *component.Func {
	var shutdown observability.ShutdownFunc
	details := "disabled"
	if cfg.Observability.Enabled {
		details = "otlp " + cfg.Observability.Endpoint
	}
	return &component.Func{
		ID:   "telemetry",
		Desc: component.Description{Name: "Telemetry", Type: "otel", Details: details},
		StartFn: func(ctx context.Context) error {
			fn, err := observability.Setup(ctx, cfg.Observability, observability.Service{
				Name:        cfg.Name,
				Version:     cfg.Version,
				Environment: cfg.Environment,
			}, log)
			if err != nil {
				return fmt.Errorf("observability setup: %w", err)
			}
			shutdown = fn
			return nil
		},
		StopFn: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	}
}
