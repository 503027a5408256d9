package errors

import (
	stderrors "errors"
)

// ErrorResponse is the JSON body returned to clients on failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ToResponse converts an AppError to its client-facing body.
// Cause and details are never included.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Success: false, Error: e.Message}
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code carried by err, or ErrCodeInternal when err is not an AppError.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Wrap returns err as an AppError, wrapping foreign errors as Internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
