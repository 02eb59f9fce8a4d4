package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
)

// CommandError describes a command that ran and exited non-zero, or could not start.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status carried by err, or -1 when err did
// not come from a process that ran to completion.
func ExitCode(err error) int {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// CommandLine renders argv as a shell-quoted string for logs and errors.
func CommandLine(name string, args ...string) string {
	return shellquote.Join(append([]string{name}, args...)...)
}

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewExecutor returns a CommandExecutor whose streamed and interactive
// commands use the given standard streams.
func NewExecutor(stdin io.Reader, stdout, stderr io.Writer) CommandExecutor {
	return &osExecutor{stdin: stdin, stdout: stdout, stderr: stderr}
}

func (e *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	line := CommandLine(name, args...)
	logging.Debug("exec", "cmd", line)

	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return out, &CommandError{
			Command:  line,
			ExitCode: ExitCode(err),
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return out, nil
}

func (e *osExecutor) Stream(ctx context.Context, env []string, name string, args ...string) error {
	line := CommandLine(name, args...)
	logging.Debug("exec", "cmd", line, "stream", true)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	if err := cmd.Run(); err != nil {
		return &CommandError{Command: line, ExitCode: ExitCode(err), Err: err}
	}
	return nil
}

func (e *osExecutor) Interactive(ctx context.Context, name string, args ...string) error {
	line := CommandLine(name, args...)
	logging.Debug("exec", "cmd", line, "interactive", true)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = e.stdin
	cmd.Stdout = e.stdout
	cmd.Stderr = e.stderr

	if err := cmd.Run(); err != nil {
		return &CommandError{Command: line, ExitCode: ExitCode(err), Err: err}
	}
	return nil
}

func (e *osExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
