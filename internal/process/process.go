// pattern: Imperative Shell

// Package process runs short-lived external commands with a bounded lifetime.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is returned when a command exceeds its timeout.
var ErrTimeout = errors.New("command timeout")

// CommandError reports a command that could not be started or waited on.
type CommandError struct {
	Cmd   string
	Stage string // "start", "wait"
	Cause error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed at %s: %v", e.Cmd, e.Stage, e.Cause)
}

func (e *CommandError) Unwrap() error { return e.Cause }

// ExitError reports a command that ran but exited with a nonzero status.
type ExitError struct {
	Cmd    string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s exited with status %d: %s", e.Cmd, e.Code, e.Stderr)
	}
	return fmt.Sprintf("%s exited with status %d", e.Cmd, e.Code)
}

// Command describes one invocation.
type Command struct {
	Name    string
	Args    []string
	Dir     string
	Env     []string      // appended to the parent environment
	Stdin   io.Reader     // nil means no input
	Stderr  io.Writer     // nil means captured into Result.Stderr
	Timeout time.Duration // zero means no timeout beyond ctx
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the captured output of a finished command.
type Result struct {
	Stdout string
	Stderr string
}

// Executor runs a command. Tests substitute fakes for Run.
type Executor func(ctx context.Context, cmd Command) (Result, error)

// Run executes cmd and waits for it. A nonzero exit yields *ExitError (the
// captured output is still returned), a failure to launch yields *CommandError,
// and an elapsed timeout yields ErrTimeout.
func Run(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(c.Environ(), cmd.Env...)
	}
	c.Stdin = cmd.Stdin
	c.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	if cmd.Stderr != nil {
		c.Stderr = cmd.Stderr
	} else {
		c.Stderr = &stderr
	}

	if err := c.Start(); err != nil {
		return Result{}, &CommandError{Cmd: cmd.Name, Stage: "start", Cause: err}
	}
	err := c.Wait()

	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%s: %w after %s", cmd.Name, ErrTimeout, cmd.Timeout)
	}
	if ctx.Err() != nil {
		return res, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return res, &ExitError{
			Cmd:    cmd.Name,
			Code:   exitErr.ExitCode(),
			Stderr: strings.TrimSpace(res.Stderr),
		}
	}
	return res, &CommandError{Cmd: cmd.Name, Stage: "wait", Cause: err}
}

// ExitCode extracts the exit status from an error returned by Run.
// It reports false when the error is not an exit status.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// ShellQuote quotes s for POSIX shells.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
