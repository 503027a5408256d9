package transcriber

// State is a step of the pipeline for one request.
type State string

const (
	StateReceived              State = "received"
	StateClassified            State = "classified"
	StateExtractionInFlight    State = "extraction_in_flight"
	StateExtracted             State = "extracted"
	StatePassThrough           State = "pass_through"
	StateTranscriptionInFlight State = "transcription_in_flight"
	StateSucceeded             State = "succeeded"
	StateFailed                State = "failed"
)

// DetailState is the AppError detail key holding the state a request failed in.
const DetailState = "state"

func (s State) String() string { return string(s) }
