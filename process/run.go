package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultGracePeriod = 5 * time.Second
	defaultStderrLimit = 64 * 1024
)

// Run executes a subprocess and waits for it to complete.
//
// Stdin is fed and stdout drained by two concurrent goroutines, so neither
// side can deadlock the other on a full pipe. If ctx is done the whole process
// group gets SIGTERM, then SIGKILL after GracePeriod, and Run returns without
// waiting for a Stdin read that is still blocked.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, fmt.Errorf("process: binary is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("process: killed by context: %w", err)
	}

	gracePeriod := cmd.GracePeriod
	if gracePeriod == 0 {
		gracePeriod = defaultGracePeriod
	}
	stderrLimit := cmd.StderrLimit
	if stderrLimit <= 0 {
		stderrLimit = defaultStderrLimit
	}

	// A failing I/O goroutine cancels procCtx, which stops the process.
	procCtx, cancelProc := context.WithCancel(ctx)
	defer cancelProc()

	c := exec.CommandContext(procCtx, cmd.Binary, cmd.Args...) //nolint:gosec // dynamic args are the purpose of this package
	c.Env = mergeEnv(cmd.Env)
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	killer := &groupKiller{grace: gracePeriod}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return killer.terminate(c.Process.Pid)
	}
	c.WaitDelay = gracePeriod + time.Second

	stderr := newTailBuffer(stderrLimit)
	c.Stderr = stderr

	var stdin io.WriteCloser
	if cmd.Stdin != nil {
		var err error
		if stdin, err = c.StdinPipe(); err != nil {
			return nil, fmt.Errorf("process: stdin pipe: %w", err)
		}
	}
	stdout, err := c.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("process: stdout pipe: %w", err)
	}

	start := time.Now()
	if err := c.Start(); err != nil {
		return nil, startError(ctx, err)
	}

	var g errgroup.Group
	if stdin != nil {
		src := &sourceReader{r: cmd.Stdin}
		in := &interruptibleReader{ctx: procCtx, r: src, res: make(chan readResult, 1)}
		g.Go(func() error { return stopOnError(cancelProc, feed(stdin, in, src)) })
	}

	var out bytes.Buffer
	g.Go(func() error { return stopOnError(cancelProc, drain(&out, stdout, cmd.MaxStdout)) })

	ioErr := g.Wait()
	waitErr := c.Wait()
	killer.stop()

	result := &Result{
		Stdout:          out.Bytes(),
		Stderr:          stderr.Bytes(),
		StderrTruncated: stderr.truncated,
		ExitCode:        -1,
		Duration:        time.Since(start),
	}
	if c.ProcessState != nil {
		result.ExitCode = c.ProcessState.ExitCode()
	}

	switch {
	case ctx.Err() != nil:
		return result, fmt.Errorf("process: killed by context: %w", ctx.Err())
	case ioErr != nil:
		return result, ioErr
	case waitErr != nil:
		return result, &ExitError{Code: result.ExitCode, Err: waitErr}
	}
	return result, nil
}

// LookPath reports whether binary resolves to an executable.
func LookPath(binary string) (string, error) {
	p, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return p, nil
}

func startError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("process: killed by context: %w", ctx.Err())
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return fmt.Errorf("process: start: %w", err)
}

func stopOnError(cancel context.CancelFunc, err error) error {
	if err != nil {
		cancel()
	}
	return err
}

// feed copies the source into the process stdin and closes it.
// A process that exits without consuming all input is not an error here;
// its exit status decides.
func feed(stdin io.WriteCloser, in io.Reader, src *sourceReader) error {
	_, err := io.Copy(stdin, in)
	closeErr := stdin.Close()
	if srcErr := src.Err(); srcErr != nil {
		return &InputError{Err: srcErr}
	}
	if err != nil {
		// A stopped process is reported by Run from the context or exit status.
		if errors.Is(err, syscall.EPIPE) || errors.Is(err, os.ErrClosed) ||
			errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return fmt.Errorf("process: writing stdin: %w", err)
	}
	if closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
		return fmt.Errorf("process: closing stdin: %w", closeErr)
	}
	return nil
}

func drain(dst *bytes.Buffer, stdout io.Reader, limit int64) error {
	if limit <= 0 {
		_, err := io.Copy(dst, stdout)
		return readErr(err)
	}
	n, err := io.Copy(dst, io.LimitReader(stdout, limit+1))
	if n > limit {
		dst.Truncate(int(limit))
		return ErrOutputLimit
	}
	return readErr(err)
}

func readErr(err error) error {
	if err == nil || errors.Is(err, os.ErrClosed) {
		return nil
	}
	return fmt.Errorf("process: reading stdout: %w", err)
}

// sourceReader remembers read failures of the caller-provided stdin so they
// can be told apart from pipe write failures.
type sourceReader struct {
	r   io.Reader
	mu  sync.Mutex
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
	return n, err
}

func (s *sourceReader) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

type readResult struct {
	n   int
	err error
}

// interruptibleReader returns ctx.Err() once ctx is done, even while a Read on
// the underlying reader is still blocked. The abandoned Read finishes on its
// own goroutine and its result is discarded.
type interruptibleReader struct {
	ctx     context.Context
	r       io.Reader
	res     chan readResult
	buf     []byte
	pending bool
}

func (r *interruptibleReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	if !r.pending {
		if cap(r.buf) < len(p) {
			r.buf = make([]byte, len(p))
		}
		buf := r.buf[:len(p)]
		r.pending = true
		go func() {
			n, err := r.r.Read(buf)
			r.res <- readResult{n: n, err: err}
		}()
	}
	select {
	case res := <-r.res:
		r.pending = false
		return copy(p, r.buf[:res.n]), res.err
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	}
}

// groupKiller sends SIGTERM to a process group and escalates to SIGKILL
// once the grace period has elapsed.
type groupKiller struct {
	grace time.Duration
	mu    sync.Mutex
	timer *time.Timer
}

func (k *groupKiller) terminate(pid int) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.timer == nil {
		k.timer = time.AfterFunc(k.grace, func() {
			_ = syscall.Kill(-pid, syscall.SIGKILL)
		})
	}
	return syscall.Kill(-pid, syscall.SIGTERM)
}

func (k *groupKiller) stop() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.timer != nil {
		k.timer.Stop()
	}
}

// mergeEnv merges additional env vars with the current environment.
func mergeEnv(extra []string) []string {
	if len(extra) == 0 {
		return nil // inherit parent env
	}
	env := os.Environ()
	return append(env, extra...)
}
