package process

import (
	"io"
	"time"
)

// Command configures a subprocess to execute.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	// Args are the command-line arguments.
	Args []string
	// Env is additional environment variables (key=value). Merged with os.Environ.
	Env []string
	// Stdin is streamed into the process through an OS pipe while stdout is
	// drained concurrently. May be nil.
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	// Defaults to 5 seconds if zero.
	GracePeriod time.Duration
	// MaxStdout caps captured stdout in bytes. Zero means unlimited.
	MaxStdout int64
	// StderrLimit keeps only the last N bytes of stderr. Defaults to 64KB.
	StderrLimit int
}
