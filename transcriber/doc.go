// Package transcriber runs one upload through the transcription pipeline:
// classify it, extract the audio track when it is a video, then send the
// audio to the speech backend.
//
// The Service never retries and never maps errors to transport statuses.
// Gateway errors are returned with their code unchanged and the failing
// pipeline state attached as the "state" detail.
package transcriber
