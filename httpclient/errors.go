package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorCode says which part of an exchange failed.
type ErrorCode string

const (
	// ErrCodeConnection covers refused connections, DNS and TLS failures.
	ErrCodeConnection ErrorCode = "connection"
	ErrCodeTimeout    ErrorCode = "timeout"
	// ErrCodeStatus is a non-2xx response. StatusCode and Body are set.
	ErrCodeStatus ErrorCode = "status"
	// ErrCodeSource means the caller's body reader failed mid-upload.
	ErrCodeSource ErrorCode = "source"
	// ErrCodeRequest means the request could not be built.
	ErrCodeRequest ErrorCode = "request"
)

// Error is returned by Client.Do for every failure.
type Error struct {
	Code       ErrorCode
	StatusCode int
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.Code == ErrCodeStatus {
		return fmt.Sprintf("httpclient: HTTP %d", e.StatusCode)
	}
	if e.Err == nil {
		return "httpclient: " + string(e.Code)
	}
	return fmt.Sprintf("httpclient: %s: %v", e.Code, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the code of an *Error in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// transportError distinguishes deadlines from other transport failures.
func transportError(ctx context.Context, err error) *Error {
	var netErr net.Error
	if ctx.Err() != nil || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Code: ErrCodeTimeout, Err: err}
	}
	return &Error{Code: ErrCodeConnection, Err: err}
}

// statusError returns nil for 2xx.
func statusError(status int, body []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	return &Error{Code: ErrCodeStatus, StatusCode: status, Body: body}
}
