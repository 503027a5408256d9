// Package openai implements transcription.Provider with the go-openai SDK,
// against OpenAI or Azure OpenAI. The SDK assembles the multipart request
// in memory, so prefer the whisper backend for very large uploads.
package openai

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kbukum/mediascribe/errors"
	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/transcription"
	"github.com/kbukum/mediascribe/util"
)

// ProviderName is the registered name for the SDK provider.
const ProviderName = transcription.BackendOpenAI

// Provider implements transcription.Provider with go-openai.
type Provider struct {
	cfg    transcription.Config
	client *goopenai.Client
	log    *logger.Logger
}

type options struct {
	transport http.RoundTripper
}

// Option customizes the provider.
type Option func(*options)

// WithTransport replaces the HTTP transport while keeping the timeout.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// New creates an SDK-backed provider.
func New(cfg transcription.Config, log *logger.Logger, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()

	var clientCfg goopenai.ClientConfig
	if cfg.Azure.Enabled() {
		clientCfg = goopenai.DefaultAzureConfig(cfg.APIKey, cfg.Azure.Endpoint)
		if cfg.Azure.APIVersion != "" {
			clientCfg.APIVersion = cfg.Azure.APIVersion
		}
		if deployment := cfg.Azure.Deployment; deployment != "" {
			clientCfg.AzureModelMapperFunc = func(string) string { return deployment }
		}
	} else {
		clientCfg = goopenai.DefaultConfig(cfg.APIKey)
		clientCfg.BaseURL = cfg.BaseURL
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.transport == nil {
		t, err := cfg.TLS.Transport()
		if err != nil {
			return nil, fmt.Errorf("openai: %w", err)
		}
		o.transport = t
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout, Transport: o.transport}

	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("openai")
	log.Info("transcription backend configured", logger.Fields(
		"base_url", clientCfg.BaseURL,
		"azure", cfg.Azure.Enabled(),
		logger.FieldModel, cfg.Model,
		"api_key", util.MaskSecret(cfg.APIKey, 3),
	))

	return &Provider{
		cfg:    cfg,
		client: goopenai.NewClientWithConfig(clientCfg),
		log:    log,
	}, nil
}

// Factory adapts New to transcription.Factory.
func Factory(cfg transcription.Config, log *logger.Logger) (transcription.Provider, error) {
	return New(cfg, log)
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// Transcribe sends req.Audio through the SDK.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	model := transcription.ResolveModel(req.Model, p.cfg.Model)
	src := &sourceReader{r: req.Audio}

	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    model,
		FilePath: transcription.ResolveFileName(req.FileName),
		Reader:   src,
		Language: util.Coalesce(req.Language, p.cfg.Language),
		Prompt:   util.Coalesce(req.Prompt, p.cfg.Prompt),
		Format:   goopenai.AudioResponseFormatJSON,
	})
	if err != nil {
		return nil, classify(ctx, err, src.err)
	}

	return &transcription.Response{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
		Model:    model,
	}, nil
}

func classify(ctx context.Context, err, sourceErr error) *errors.AppError {
	if sourceErr != nil {
		return errors.InvalidInput("upload interrupted").WithCause(sourceErr)
	}

	var apiErr *goopenai.APIError
	if stderrors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return transcription.ClassifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *goopenai.RequestError
	if stderrors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return transcription.ClassifyStatus(reqErr.HTTPStatusCode, err).
			WithDetail("body", util.Truncate(string(reqErr.Body), 256))
	}

	if ctx.Err() != nil {
		return errors.UpstreamUnavailable(err)
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return errors.UpstreamUnavailable(err)
	}
	return errors.UpstreamFailed(fmt.Errorf("openai: %w", err))
}

type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}
