package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client sends requests and classifies their failures.
type Client struct {
	http *http.Client
	cfg  Config
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := cfg.Transport
	if transport == nil {
		t, err := cfg.TLS.Transport()
		if err != nil {
			return nil, fmt.Errorf("httpclient: %w", err)
		}
		transport = t
	}

	return &Client{
		http: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		cfg:  cfg,
	}, nil
}

// Do performs req. A non-2xx answer returns both the Response and an
// ErrCodeStatus error. A failing multipart source wins over the transport
// error it causes.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, stream, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if srcErr := stream.SourceErr(); srcErr != nil {
			return nil, &Error{Code: ErrCodeSource, Err: srcErr}
		}
		return nil, transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.cfg.MaxResponseSize))
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("read response: %w", err))
	}
	if srcErr := stream.SourceErr(); srcErr != nil {
		return nil, &Error{Code: ErrCodeSource, Err: srcErr}
	}

	out := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if se := statusError(resp.StatusCode, body); se != nil {
		return out, se
	}
	return out, nil
}

// newRequest builds the *http.Request. stream is nil unless the body is
// multipart.
func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, *multipartStream, error) {
	target := req.Path
	if c.cfg.BaseURL != "" && !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(target, "/")
	}

	var (
		body        io.Reader
		contentType string
		stream      *multipartStream
	)
	if req.Body != nil {
		stream = req.Body.stream()
		body, contentType = stream, stream.contentType
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		if stream != nil {
			_ = stream.Close()
		}
		return nil, nil, &Error{Code: ErrCodeRequest, Err: err}
	}
	if stream != nil {
		httpReq.ContentLength = stream.length
	}

	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = vs
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.cfg.Auth != nil {
		c.cfg.Auth(httpReq.Header)
	}
	return httpReq, stream, nil
}
