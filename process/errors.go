package process

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when the binary cannot be found or executed.
	ErrUnavailable = errors.New("process: binary unavailable")
	// ErrOutputLimit is returned when stdout exceeds Command.MaxStdout.
	ErrOutputLimit = errors.New("process: output limit exceeded")
)

// InputError reports a failure reading Command.Stdin. The process is killed
// when it happens.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return "process: reading stdin source: " + e.Err.Error() }
func (e *InputError) Unwrap() error { return e.Err }

// ExitError reports a non-zero exit status.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return fmt.Sprintf("process: exit code %d: %v", e.Code, e.Err) }
func (e *ExitError) Unwrap() error { return e.Err }
