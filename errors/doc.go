// Package errors defines the failure taxonomy shared by every stage of the
// transcription pipeline.
//
// Gateways classify their failures into an ErrorCode and return an *AppError.
// The orchestrator forwards those errors unchanged apart from adding details,
// and only the HTTP entrypoint translates codes into status codes.
package errors
