package chromiaclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

////////////////////////////////////////////////////////////////////////////////

const DEFAULT_MAX_OUTPUT_BYTES = 8 << 20

// Command is one subprocess invocation. Args are passed to the binary as-is,
// no shell is involved.
type Command struct {
	Binary string
	Args   []string
	Dir    string
}

func (c Command) String() string {
	return strings.TrimSpace(c.Binary + " " + strings.Join(c.Args, " "))
}

type Result struct {
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

////////////////////////////////////////////////////////////////////////////////

type execRunner struct {
	timeout   time.Duration
	maxOutput int
}

// NewExecRunner returns a Runner backed by os/exec. Every command is killed
// once timeout elapses or the caller's context is done.
func NewExecRunner(timeout time.Duration) *execRunner {
	return &execRunner{timeout: timeout, maxOutput: DEFAULT_MAX_OUTPUT_BYTES}
}

func (r *execRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	execCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(execCtx, cmd.Binary, cmd.Args...)
	execCmd.Dir = cmd.Dir

	var stdoutBuf, stderrBuf bytes.Buffer
	execCmd.Stdout = &limitedWriter{w: &stdoutBuf, max: r.maxOutput}
	execCmd.Stderr = &limitedWriter{w: &stderrBuf, max: r.maxOutput}

	start := time.Now()
	err := execCmd.Run()
	result := &Result{
		Stdout:   stdoutBuf.Bytes(),
		Stderr:   stderrBuf.Bytes(),
		Duration: time.Since(start),
	}

	if err != nil {
		if ctxErr := execCtx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%w: %s: %w", ErrCommandFailed, cmd.Binary, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return result, fmt.Errorf(
				"%w: %s exited with %d: %s",
				ErrCommandFailed,
				cmd.Binary,
				exitErr.ExitCode(),
				strings.TrimSpace(string(result.Stderr)),
			)
		}
		return result, fmt.Errorf("%w: %s: %w", ErrCommandFailed, cmd.Binary, err)
	}

	return result, nil
}

////////////////////////////////////////////////////////////////////////////////

// limitedWriter drops everything past max bytes but reports full writes so
// the child process never blocks on a full pipe.
type limitedWriter struct {
	w       *bytes.Buffer
	max     int
	written int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	remaining := lw.max - lw.written
	if remaining > 0 {
		chunk := p
		if len(chunk) > remaining {
			chunk = chunk[:remaining]
		}
		lw.w.Write(chunk)
		lw.written += len(chunk)
	}
	return len(p), nil
}
