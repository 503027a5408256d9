package transcription

import "io"

// Request holds parameters for a transcription call.
type Request struct {
	// Audio is read once, from start to EOF.
	Audio io.Reader
	// Size is the number of bytes Audio yields, or -1 when unknown.
	Size int64
	// FileName is sent to the backend so it can detect the container.
	FileName string
	// ContentType is the declared MIME type of Audio.
	ContentType string
	// Model overrides the configured model when set.
	Model string
	// Language is the expected language of the audio (e.g. "en").
	Language string
	// Prompt is optional context to guide the model.
	Prompt string
}

// Response holds the result of a transcription call.
type Response struct {
	// Text is the full transcription text. Empty is a valid transcript.
	Text string `json:"text"`
	// Language is the detected or specified language.
	Language string `json:"language,omitempty"`
	// Duration is the audio duration in seconds, when the backend reports it.
	Duration float64 `json:"duration,omitempty"`
	// Model is the model that served the request.
	Model string `json:"model,omitempty"`
}

// ResolveModel returns requested, or fallback when requested is empty.
func ResolveModel(requested, fallback string) string {
	if requested != "" {
		return requested
	}
	return fallback
}

// ResolveFileName returns name, or "audio" when name is empty.
func ResolveFileName(name string) string {
	if name == "" {
		return "audio"
	}
	return name
}
