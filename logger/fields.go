package logger

// Standard field key constants for structured logging.
const (
	FieldComponent      = "component"
	FieldTraceID        = "trace_id"
	FieldSpanID         = "span_id"
	FieldRequestID      = "request_id"
	FieldOperation      = "operation"
	FieldStage          = "stage"
	FieldStatus         = "status"
	FieldError          = "error"
	FieldErrorCode      = "error_code"
	FieldDuration       = "duration_ms"
	FieldFilename       = "filename"
	FieldContentType    = "content_type"
	FieldMediaKind      = "media_kind"
	FieldModel          = "model"
	FieldBytes          = "bytes"
	FieldExitCode       = "exit_code"
	FieldUpstreamStatus = "upstream_status"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("done", logger.Fields("stage", "extracting", "bytes", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
