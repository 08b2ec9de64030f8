package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/oshokin/f1sh-bundler/internal/logger"
)

// maxOutputInError bounds how much tool output is kept in an error message.
const maxOutputInError = 2048

// ErrToolFailed is wrapped by every error returned for a failed tool run.
var ErrToolFailed = errors.New("tool failed")

// Executor runs external tools synchronously.
type Executor struct {
	// Stdout receives the tool's standard output when it is not captured. Defaults to io.Discard.
	Stdout io.Writer
	// Stderr receives the tool's standard error when it is not captured. Defaults to io.Discard.
	Stderr io.Writer
}

// ExitError describes a tool run that could not start or exited with a non-zero status.
type ExitError struct {
	// Tool is the executable path.
	Tool string
	// Args are the arguments passed to the tool.
	Args []string
	// Output is the captured output, if any.
	Output []byte
	// Err is the underlying error from os/exec.
	Err error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)

	out := strings.TrimSpace(string(e.Output))
	if out == "" {
		return msg
	}

	if len(out) > maxOutputInError {
		out = out[:maxOutputInError] + "..."
	}

	return msg + ": " + out
}

// Unwrap exposes both ErrToolFailed and the os/exec error to errors.Is.
func (e *ExitError) Unwrap() []error {
	return []error{ErrToolFailed, e.Err}
}

// CombinedOutput runs the tool and returns its merged stdout and stderr.
func (e *Executor) CombinedOutput(ctx context.Context, tool string, args ...string) ([]byte, error) {
	var buf bytes.Buffer

	cmd := e.command(ctx, nil, tool, args...)
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := e.run(ctx, cmd); err != nil {
		return buf.Bytes(), &ExitError{Tool: tool, Args: args, Output: buf.Bytes(), Err: err}
	}

	return buf.Bytes(), nil
}

// Output runs the tool with extra environment variables and returns its stdout.
// Standard error goes to the executor's Stderr writer and is kept for errors.
func (e *Executor) Output(ctx context.Context, env map[string]string, tool string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := e.command(ctx, env, tool, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(&stderr, e.stderr())

	if err := e.run(ctx, cmd); err != nil {
		return stdout.Bytes(), &ExitError{Tool: tool, Args: args, Output: stderr.Bytes(), Err: err}
	}

	return stdout.Bytes(), nil
}

// Run runs the tool, streaming stdout to out (the executor's Stdout when nil).
func (e *Executor) Run(ctx context.Context, out io.Writer, tool string, args ...string) error {
	var stderr bytes.Buffer

	if out == nil {
		out = e.stdout()
	}

	cmd := e.command(ctx, nil, tool, args...)
	cmd.Stdout = out
	cmd.Stderr = io.MultiWriter(&stderr, e.stderr())

	if err := e.run(ctx, cmd); err != nil {
		return &ExitError{Tool: tool, Args: args, Output: stderr.Bytes(), Err: err}
	}

	return nil
}

func (e *Executor) command(ctx context.Context, env map[string]string, tool string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, tool, args...)

	if len(env) > 0 {
		cmd.Env = os.Environ()
		for key, value := range env {
			cmd.Env = append(cmd.Env, key+"="+value)
		}
	}

	return cmd
}

func (e *Executor) run(ctx context.Context, cmd *exec.Cmd) error {
	logger.DebugKV(ctx, "Running tool", "command", cmd.String())

	return cmd.Run()
}

func (e *Executor) stdout() io.Writer {
	if e == nil || e.Stdout == nil {
		return io.Discard
	}

	return e.Stdout
}

func (e *Executor) stderr() io.Writer {
	if e == nil || e.Stderr == nil {
		return io.Discard
	}

	return e.Stderr
}
