package httpclient

import "net/http"

// Request describes one outbound call.
type Request struct {
	Method string
	// Path is joined to Config.BaseURL unless it is an absolute URL.
	Path   string
	Header http.Header
	// Body is streamed when set. Nil sends no body.
	Body *MultipartBody
}

// Response is a completed exchange. Body is capped at
// Config.MaxResponseSize.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
