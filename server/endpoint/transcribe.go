package endpoint

import (
	"context"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/mediascribe/errors"
	"github.com/kbukum/mediascribe/logger"
	"github.com/kbukum/mediascribe/transcriber"
	"github.com/kbukum/mediascribe/util"
)

// Form field and query parameter names accepted by POST /transcribe.
const (
	FieldFile     = "file"
	FieldModel    = "model"
	FieldLanguage = "language"
)

const (
	maxFieldSize = 1 << 10
	// maxTrailingParts bounds the scan for fields sent after the file.
	maxTrailingParts = 8
)

// Transcriber runs the pipeline for one upload.
type Transcriber interface {
	Transcribe(ctx context.Context, up transcriber.Upload) (*transcriber.Result, error)
}

// TranscriptionResponse is the success body of POST /transcribe.
type TranscriptionResponse struct {
	Transcription string `json:"transcription"`
	Success       bool   `json:"success"`
}

// Transcribe handles POST /transcribe. The multipart body is streamed: the
// file part is handed to the pipeline as soon as it is reached, so text
// fields are only honored when they precede it (curl -F model=m -F file=@x,
// not the other way round). A model or language field found after the file is
// ignored and logged as a warning. Both may also be passed as query
// parameters; form fields win.
func Transcribe(svc Transcriber, log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("endpoint")

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		mr, err := c.Request.MultipartReader()
		if err != nil {
			reject(c, log, errors.InvalidInput("expected multipart/form-data").WithCause(err))
			return
		}

		up := transcriber.Upload{
			Size:     -1,
			Model:    strings.TrimSpace(c.Query(FieldModel)),
			Language: strings.TrimSpace(c.Query(FieldLanguage)),
		}

		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				reject(c, log, errors.InvalidInput("missing file"))
				return
			}
			if err != nil {
				reject(c, log, bodyError(err))
				return
			}

			switch part.FormName() {
			case FieldFile:
				up.Filename = util.SanitizeFilename(part.FileName())
				up.ContentType = part.Header.Get("Content-Type")
				body := &uploadReader{r: part}
				up.Body = body

				result, err := svc.Transcribe(ctx, up)
				_ = part.Close()
				if err != nil {
					if body.tooLarge.Load() {
						err = errors.InvalidInput("file too large").WithCause(err)
					}
					RespondError(c, err)
					return
				}
				warnLateFields(ctx, log, mr, up)
				c.JSON(http.StatusOK, TranscriptionResponse{Transcription: result.Text, Success: true})
				return

			case FieldModel, FieldLanguage:
				v, appErr := readField(part)
				if appErr != nil {
					reject(c, log, appErr)
					return
				}
				if v == "" {
					continue
				}
				if part.FormName() == FieldModel {
					up.Model = v
				} else {
					up.Language = v
				}
			}
		}
	}
}

// warnLateFields reports model or language fields that arrived after the
// file part and therefore had no effect.
func warnLateFields(ctx context.Context, log *logger.Logger, mr *multipart.Reader, up transcriber.Upload) {
	for range maxTrailingParts {
		part, err := mr.NextPart()
		if err != nil {
			return
		}
		name := part.FormName()
		_ = part.Close()
		if name != FieldModel && name != FieldLanguage {
			continue
		}
		log.WithContext(ctx).Warn("form field after file ignored", logger.Fields(
			"field", name,
			logger.FieldFilename, up.Filename,
			"hint", "send "+name+" before the file part or as a query parameter",
		))
	}
}

// reject answers a request refused before it reached the pipeline.
func reject(c *gin.Context, log *logger.Logger, err *errors.AppError) {
	fields := logger.Fields(logger.FieldErrorCode, string(err.Code), "reason", err.Message)
	if err.Cause != nil {
		fields[logger.FieldError] = err.Cause.Error()
	}
	log.WithContext(c.Request.Context()).Info("upload rejected", fields)
	RespondError(c, err)
}

func readField(part *multipart.Part) (string, *errors.AppError) {
	b, err := io.ReadAll(io.LimitReader(part, maxFieldSize+1))
	if err != nil {
		return "", bodyError(err)
	}
	if len(b) > maxFieldSize {
		return "", errors.InvalidInput("form field " + part.FormName() + " too long")
	}
	return strings.TrimSpace(string(b)), nil
}

func bodyError(err error) *errors.AppError {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.InvalidInput("file too large").WithCause(err)
	}
	return errors.InvalidInput("malformed multipart body").WithCause(err)
}

// uploadReader notes whether the body cap was hit while a gateway was
// reading the file part. Reads may happen on a gateway goroutine.
type uploadReader struct {
	r        io.Reader
	tooLarge atomic.Bool
}

func (u *uploadReader) Read(p []byte) (int, error) {
	n, err := u.r.Read(p)
	if err != nil && err != io.EOF {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			u.tooLarge.Store(true)
		}
	}
	return n, err
}
