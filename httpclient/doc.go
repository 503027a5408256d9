// Package httpclient sends requests to the speech API and classifies the
// outcome into an ErrorCode, leaving the mapping onto the service's error
// kinds to the caller.
//
// Multipart bodies are streamed through an io.Pipe. A file part backed by a
// reader is never buffered, and when every part size is known the exact
// Content-Length is sent instead of chunked encoding.
//
//	c, _ := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.openai.com/v1",
//	    Auth:    httpclient.Bearer(key),
//	})
//	resp, err := c.Do(ctx, httpclient.Request{
//	    Method: http.MethodPost,
//	    Path:   "/audio/transcriptions",
//	    Body:   body,
//	})
package httpclient
