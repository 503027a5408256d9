package transcription

import "context"

// Provider is the interface that transcription backends must implement.
type Provider interface {
	// Name returns the backend name used in logs and metrics.
	Name() string

	// Transcribe sends audio for transcription and returns the result.
	// Errors are always *errors.AppError with an upstream or input code.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
