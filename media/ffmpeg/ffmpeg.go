// Package ffmpeg extracts the audio track of a video by piping it through
// the ffmpeg binary. Nothing touches the disk: the upload is streamed into
// ffmpeg's stdin and the encoded audio is read back from stdout.
package ffmpeg

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/mediascribe/errors"
	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/media"
	"github.com/kbukum/mediascribe/process"
	"github.com/kbukum/mediascribe/util"
)

// stderr fragments that mean the input itself is broken, not ffmpeg.
var invalidInputMarkers = []struct {
	fragment string
	reason   string
}{
	{"Invalid data found when processing input", "unreadable media container"},
	{"moov atom not found", "unreadable media container"},
	{"does not contain any stream", "no audio track"},
	{"Output file is empty", "no audio track"},
	{"matches no streams", "no audio track"},
}

// Extractor implements media.Extractor with the ffmpeg binary.
type Extractor struct {
	cfg       Config
	format    media.Format
	maxOutput int64
	runner    *process.Runner
	log       *logger.Logger
}

var _ media.Extractor = (*Extractor)(nil)

// New creates an Extractor. The binary is not looked up until the first
// extraction or an explicit Available call.
func New(cfg Config, log *logger.Logger) (*Extractor, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	format, _ := media.LookupFormat(cfg.Format)
	maxOutput, _ := util.ParseSize(cfg.MaxOutputSize)
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	return &Extractor{
		cfg:       cfg,
		format:    format,
		maxOutput: maxOutput,
		runner: process.NewRunner(process.Config{
			GracePeriod: cfg.GracePeriod,
			Timeout:     cfg.Timeout,
			StderrLimit: cfg.StderrLimit,
		}),
		log: log.WithComponent("ffmpeg"),
	}, nil
}

// Format returns the canonical output format.
func (e *Extractor) Format() media.Format { return e.format }

// Available resolves the configured binary on PATH.
func (e *Extractor) Available(_ context.Context) error {
	_, err := process.LookPath(e.cfg.Binary)
	return err
}

// Args builds the ffmpeg argument list: read stdin, drop video, encode to the
// canonical format on stdout.
func (e *Extractor) Args() []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-i", "pipe:0", "-vn"}
	args = append(args, e.format.EncoderArgs...)
	return append(args, "pipe:1")
}

// Extract streams src through ffmpeg and returns the encoded audio.
func (e *Extractor) Extract(ctx context.Context, src io.Reader, hint media.Source) (*media.ExtractedAudio, error) {
	log := e.log.WithContext(ctx)
	start := time.Now()

	result, err := e.runner.Run(ctx, process.Command{
		Binary:    e.cfg.Binary,
		Args:      e.Args(),
		Stdin:     src,
		MaxStdout: e.maxOutput,
	})
	if err != nil {
		appErr := e.classify(ctx, err, result)
		fields := logger.Fields(
			logger.FieldFilename, hint.Filename,
			logger.FieldErrorCode, string(appErr.Code),
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
		if result != nil {
			fields[logger.FieldExitCode] = result.ExitCode
			fields["stderr"] = util.Truncate(strings.TrimSpace(string(result.Stderr)), e.cfg.StderrLimit)
		}
		log.WithError(err).Warn("audio extraction failed", fields)
		return nil, appErr
	}

	if len(result.Stdout) == 0 {
		log.Warn("audio extraction produced no output", logger.Fields(
			logger.FieldFilename, hint.Filename,
			"stderr", util.Truncate(strings.TrimSpace(string(result.Stderr)), e.cfg.StderrLimit),
		))
		return nil, errors.ExtractionFailed(fmt.Errorf("ffmpeg produced no output"))
	}

	log.Debug("audio extracted", logger.Fields(
		logger.FieldFilename, hint.Filename,
		logger.FieldBytes, len(result.Stdout),
		logger.FieldDuration, result.Duration.Milliseconds(),
	))

	return &media.ExtractedAudio{
		Audio:  bytes.NewReader(result.Stdout),
		Size:   int64(len(result.Stdout)),
		Format: e.format,
	}, nil
}

// classify maps a process failure onto the error taxonomy.
func (e *Extractor) classify(ctx context.Context, err error, result *process.Result) *errors.AppError {
	var inErr *process.InputError
	var maxBytesErr *http.MaxBytesError

	switch {
	case stderrors.Is(err, process.ErrUnavailable):
		return errors.ExtractionUnavailable(err)
	case stderrors.As(err, &maxBytesErr):
		return errors.InvalidInput("file too large").WithCause(err)
	case stderrors.As(err, &inErr):
		return errors.InvalidInput("upload interrupted").WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.ExtractionTimeout(err)
	case stderrors.Is(err, context.Canceled) || ctx.Err() != nil:
		return errors.ExtractionFailed(err).WithDetail("canceled", true)
	case stderrors.Is(err, process.ErrOutputLimit):
		return errors.ExtractionFailed(err).WithDetail("limit", util.FormatSize(e.maxOutput))
	}

	if result != nil {
		stderr := string(result.Stderr)
		for _, m := range invalidInputMarkers {
			if strings.Contains(stderr, m.fragment) {
				return errors.InvalidInput(m.reason).WithCause(err)
			}
		}
		return errors.ExtractionFailed(err).WithDetail("exit_code", result.ExitCode)
	}
	return errors.ExtractionFailed(err)
}
