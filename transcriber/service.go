package transcriber

import (
	"context"
	"io"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/mediascribe/errors"
	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/media"
	"github.com/kbukum/mediascribe/observability"
	"github.com/kbukum/mediascribe/transcription"
)

// Upload is a media file as received from a client. Body is read at most once.
type Upload struct {
	Body        io.Reader
	Filename    string
	ContentType string
	// Size is the declared byte count, or -1 when unknown.
	Size int64
	// Model selects the speech model; empty means the configured default.
	Model    string
	Language string
}

// Result is a successful transcription.
type Result struct {
	// Text may be empty when the audio contains no speech.
	Text     string
	Kind     media.Kind
	Model    string
	Language string
	Duration float64
}

// Classifier decides the media kind of an upload.
type Classifier interface {
	Classify(filename, contentType string) media.Kind
	AudioFileName(filename, contentType string) string
}

// Service orchestrates classification, extraction and transcription.
type Service struct {
	classifier   Classifier
	extractor    media.Extractor
	provider     transcription.Provider
	defaultModel string
	log          *logger.Logger
	metrics      *observability.PipelineMetrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics enables pipeline metrics.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithDefaultModel sets the model used when an upload names none.
func WithDefaultModel(model string) Option {
	return func(s *Service) {
		if model != "" {
			s.defaultModel = model
		}
	}
}

// New creates a Service.
func New(classifier Classifier, extractor media.Extractor, provider transcription.Provider, opts ...Option) *Service {
	s := &Service{
		classifier:   classifier,
		extractor:    extractor,
		provider:     provider,
		defaultModel: transcription.DefaultModel,
		log:          logger.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.WithComponent("transcriber")
	return s
}

// run carries the per-request state through the pipeline.
type run struct {
	log   *logger.Logger
	state State
	kind  media.Kind
}

func (r *run) enter(ctx context.Context, next State) {
	r.log.Debug("state transition", logger.Fields("from", r.state.String(), "to", next.String()))
	r.state = next
	observability.SetSpanAttribute(ctx, observability.AttrState, next.String())
}

// fail attaches the failing state to err and logs it. Errors outside the
// taxonomy become INTERNAL_ERROR.
func (r *run) fail(err error) *errors.AppError {
	appErr := errors.Wrap(err).WithDetail(DetailState, r.state.String())

	fields := logger.Fields(
		logger.FieldErrorCode, string(appErr.Code),
		DetailState, r.state.String(),
	)
	for k, v := range appErr.Details {
		fields[k] = v
	}
	if appErr.Cause != nil {
		fields[logger.FieldError] = appErr.Cause.Error()
	}

	switch appErr.Code {
	case errors.ErrCodeUnsupportedFormat, errors.ErrCodeInvalidInput:
		r.log.Info("transcription rejected", fields)
	case errors.ErrCodeInternal, errors.ErrCodeExtractionFailed, errors.ErrCodeUpstreamFailed, errors.ErrCodeUpstreamAuth:
		r.log.Error("transcription failed", fields)
	default:
		r.log.Warn("transcription failed", fields)
	}
	r.state = StateFailed
	return appErr
}

// Transcribe runs up through the pipeline. On failure the error is always an
// *errors.AppError.
func (s *Service) Transcribe(ctx context.Context, up Upload) (result *Result, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe)
	span.SetAttributes(
		attribute.String(observability.AttrFilename, up.Filename),
		attribute.String(observability.AttrContentType, up.ContentType),
	)

	log := s.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldFilename, up.Filename,
		logger.FieldContentType, up.ContentType,
	))
	r := &run{log: log, state: StateReceived}
	if s.metrics != nil {
		s.metrics.RequestStarted(ctx)
	}
	defer func() {
		outcome := observability.OutcomeOK
		if err != nil {
			outcome = string(errors.CodeOf(err))
		}
		if s.metrics != nil {
			s.metrics.RequestFinished(ctx, r.kind.String(), outcome, time.Since(start))
		}
		observability.EndSpan(span, outcome, err)
	}()

	result, appErr := s.transcribe(ctx, r, up)
	if appErr != nil {
		return nil, appErr
	}
	r.log.Info("transcription succeeded", logger.Fields(
		logger.FieldMediaKind, r.kind.String(),
		logger.FieldModel, result.Model,
		"chars", len(result.Text),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return result, nil
}

func (s *Service) transcribe(ctx context.Context, r *run, up Upload) (*Result, *errors.AppError) {
	r.kind = s.classifier.Classify(up.Filename, up.ContentType)
	r.enter(ctx, StateClassified)
	observability.SetSpanAttribute(ctx, observability.AttrMediaKind, r.kind.String())
	r.log = r.log.WithFields(logger.Fields(logger.FieldMediaKind, r.kind.String()))

	var req transcription.Request
	switch r.kind {
	case media.KindAudio:
		r.enter(ctx, StatePassThrough)
		req = transcription.Request{
			Audio:       up.Body,
			Size:        up.Size,
			FileName:    s.classifier.AudioFileName(up.Filename, up.ContentType),
			ContentType: up.ContentType,
		}

	case media.KindVideo:
		r.enter(ctx, StateExtractionInFlight)
		audio, err := s.extract(ctx, up)
		if err != nil {
			return nil, r.fail(err)
		}
		r.enter(ctx, StateExtracted)
		req = transcription.Request{
			Audio:       audio.Audio,
			Size:        audio.Size,
			FileName:    audio.Format.FileName(baseName(up.Filename)),
			ContentType: audio.Format.ContentType,
		}

	default:
		return nil, r.fail(errors.UnsupportedFormat())
	}

	req.Model = transcription.ResolveModel(up.Model, s.defaultModel)
	req.Language = up.Language

	r.enter(ctx, StateTranscriptionInFlight)
	resp, err := s.upstream(ctx, req)
	if err != nil {
		return nil, r.fail(err)
	}
	r.enter(ctx, StateSucceeded)

	return &Result{
		Text:     resp.Text,
		Kind:     r.kind,
		Model:    req.Model,
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}

func (s *Service) extract(ctx context.Context, up Upload) (*media.ExtractedAudio, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanExtract)

	audio, err := s.extractor.Extract(ctx, up.Body, media.Source{
		Filename:    up.Filename,
		ContentType: up.ContentType,
		Size:        up.Size,
	})
	outcome := s.stageOutcome(ctx, observability.StageExtract, start, err)
	if err == nil {
		span.SetAttributes(
			attribute.Int64(observability.AttrAudioBytes, audio.Size),
			attribute.String(observability.AttrAudioFormat, audio.Format.Name),
		)
		if s.metrics != nil {
			s.metrics.RecordExtractedBytes(ctx, audio.Format.Name, audio.Size)
		}
	}
	observability.EndSpan(span, outcome, err)
	return audio, err
}

func (s *Service) upstream(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanUpstream)
	span.SetAttributes(
		attribute.String(observability.AttrBackend, s.provider.Name()),
		attribute.String(observability.AttrModel, req.Model),
	)

	resp, err := s.provider.Transcribe(ctx, req)
	outcome := s.stageOutcome(ctx, observability.StageUpstream, start, err)
	observability.EndSpan(span, outcome, err)
	return resp, err
}

func (s *Service) stageOutcome(ctx context.Context, stage string, start time.Time, err error) string {
	outcome := observability.OutcomeOK
	if err != nil {
		outcome = string(errors.CodeOf(err))
	}
	if s.metrics != nil {
		s.metrics.RecordStage(ctx, stage, outcome, time.Since(start))
	}
	return outcome
}

// baseName strips directories and the extension from an upload filename.
func baseName(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))
	if name == "" || name == "." || name == "/" {
		return "audio"
	}
	return name
}
