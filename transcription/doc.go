// Package transcription defines the gateway to speech-to-text backends and
// the registry that selects one at startup.
//
// A Provider makes exactly one outbound call per Transcribe and classifies
// every failure into the application error taxonomy, so callers never see
// transport or SDK errors.
//
// # Backends
//
//   - transcription/whisper: OpenAI-compatible HTTP API, streaming multipart upload
//   - transcription/openai: go-openai SDK, OpenAI or Azure OpenAI
//
// # Usage
//
//	reg := transcription.NewRegistry()
//	reg.Register(whisper.ProviderName, whisper.Factory)
//	p, err := reg.Create(cfg, log)
//	resp, err := p.Transcribe(ctx, transcription.Request{Audio: r, Size: n, FileName: "a.wav"})
package transcription
