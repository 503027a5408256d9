package media

import (
	"context"
	"io"
)

// Source describes an upload as declared by the client.
type Source struct {
	Filename    string
	ContentType string
	// Size is the declared byte count, or -1 when unknown.
	Size int64
}

// ExtractedAudio is the audio track of a video in the canonical format.
// Audio is read exactly once.
type ExtractedAudio struct {
	Audio  io.Reader
	Size   int64
	Format Format
}

// Extractor turns a video stream into audio. Implementations return
// *errors.AppError values with one of the EXTRACTION_* codes or INVALID_INPUT.
type Extractor interface {
	Extract(ctx context.Context, src io.Reader, hint Source) (*ExtractedAudio, error)
}
