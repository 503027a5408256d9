// Package whisper implements transcription.Provider against an
// OpenAI-compatible /audio/transcriptions endpoint. The audio is streamed
// into the multipart request body and is never buffered here.
package whisper

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/kbukum/mediascribe/errors"
	"github.com/kbukum/mediascribe/httpclient"
	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/transcription"
	"github.com/kbukum/mediascribe/util"
)

const (
	// ProviderName is the registered name for the Whisper provider.
	ProviderName = transcription.BackendWhisper

	transcriptionsPath = "/audio/transcriptions"
)

// Provider implements transcription.Provider over HTTP.
type Provider struct {
	cfg    transcription.Config
	client *httpclient.Client
	log    *logger.Logger
}

// Option customizes the provider.
type Option func(*httpclient.Config)

// WithTransport replaces the HTTP transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *httpclient.Config) { c.Transport = rt }
}

// New creates a Whisper provider from the transcription config.
func New(cfg transcription.Config, log *logger.Logger, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()
	maxResponse, err := util.ParseSize(cfg.MaxResponseSize)
	if err != nil {
		return nil, fmt.Errorf("whisper: max_response_size: %w", err)
	}

	hc := httpclient.Config{
		BaseURL:         cfg.BaseURL,
		Timeout:         cfg.Timeout,
		MaxResponseSize: maxResponse,
		Headers:         map[string]string{"Accept": "application/json"},
		TLS:             &cfg.TLS,
	}
	if cfg.APIKey != "" {
		hc.Auth = httpclient.Bearer(cfg.APIKey)
	}
	for _, o := range opts {
		o(&hc)
	}
	client, err := httpclient.New(hc)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("whisper")
	log.Info("transcription backend configured", logger.Fields(
		"base_url", cfg.BaseURL,
		logger.FieldModel, cfg.Model,
		"api_key", util.MaskSecret(cfg.APIKey, 3),
	))

	return &Provider{cfg: cfg, client: client, log: log}, nil
}

// Factory adapts New to transcription.Factory.
func Factory(cfg transcription.Config, log *logger.Logger) (transcription.Provider, error) {
	return New(cfg, log)
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

type apiResponse struct {
	Text     *string `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
}

// Transcribe streams req.Audio to the API and returns the transcript.
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	model := transcription.ResolveModel(req.Model, p.cfg.Model)

	body := (&httpclient.MultipartBody{}).
		AddField("model", model).
		AddField("response_format", "json")
	if lang := util.Coalesce(req.Language, p.cfg.Language); lang != "" {
		body.AddField("language", lang)
	}
	if prompt := util.Coalesce(req.Prompt, p.cfg.Prompt); prompt != "" {
		body.AddField("prompt", prompt)
	}
	body.Files = []httpclient.FileField{{
		FieldName:   "file",
		FileName:    transcription.ResolveFileName(req.FileName),
		ContentType: req.ContentType,
		Reader:      req.Audio,
		Size:        req.Size,
	}}

	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   transcriptionsPath,
		Body:   body,
	})
	if err != nil {
		return nil, p.classify(err)
	}

	var out apiResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, errors.UpstreamFailed(fmt.Errorf("decode response: %w", err)).
			WithDetail("body", util.Truncate(string(resp.Body), 256))
	}
	if out.Text == nil {
		return nil, errors.UpstreamFailed(stderrors.New("response has no text field"))
	}

	return &transcription.Response{
		Text:     *out.Text,
		Language: out.Language,
		Duration: out.Duration,
		Model:    model,
	}, nil
}

func (p *Provider) classify(err error) *errors.AppError {
	switch httpclient.CodeOf(err) {
	case httpclient.ErrCodeSource:
		return errors.InvalidInput("upload interrupted").WithCause(err)
	case httpclient.ErrCodeTimeout, httpclient.ErrCodeConnection:
		return errors.UpstreamUnavailable(err)
	case httpclient.ErrCodeStatus:
		var he *httpclient.Error
		_ = stderrors.As(err, &he)
		return transcription.ClassifyStatus(he.StatusCode, err).
			WithDetail("body", util.Truncate(string(he.Body), 256))
	}
	return errors.UpstreamFailed(err)
}
