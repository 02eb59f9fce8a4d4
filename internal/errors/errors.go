package errors

import (
	"errors"
	"fmt"
)

// Exit codes for forage-wt. Every failure exits with ExitGeneralError;
// the kind is what callers branch on.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
)

// Kind classifies an EnvError.
type Kind int

const (
	KindGeneral Kind = iota
	KindEnvironment
	KindValidation
	KindNotFound
	KindPortAllocation
	KindContainer
	KindWorkspace
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindEnvironment:
		return "environment"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindPortAllocation:
		return "port-allocation"
	case KindContainer:
		return "container"
	case KindWorkspace:
		return "workspace"
	case KindConfig:
		return "config"
	default:
		return "general"
	}
}

// EnvError is the base error type for forage-wt
type EnvError struct {
	Kind    Kind
	Code    int
	Message string
	Cause   error
}

func (e *EnvError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *EnvError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *EnvError) ExitCode() int {
	return e.Code
}

// New creates a new EnvError
func New(kind Kind, message string) *EnvError {
	return &EnvError{
		Kind:    kind,
		Code:    ExitGeneralError,
		Message: message,
	}
}

// Wrap wraps an existing error with an EnvError
func Wrap(kind Kind, message string, cause error) *EnvError {
	return &EnvError{
		Kind:    kind,
		Code:    ExitGeneralError,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// NotInRepository is returned when no .git marker is found above start.
func NotInRepository(start string) *EnvError {
	return New(KindEnvironment, fmt.Sprintf("not in a git repository: %s", start))
}

// MissingDockerfile is returned when the environment definition file is absent.
func MissingDockerfile(path string) *EnvError {
	return New(KindEnvironment, fmt.Sprintf("no Dockerfile at %s (run: forage-wt init <base-image> --write)", path))
}

// NoRuntime is returned when neither podman nor docker can be found.
func NoRuntime() *EnvError {
	return New(KindEnvironment, "no container runtime found (install podman or docker)")
}

// InvalidBranchName is returned when a label normalizes to nothing.
func InvalidBranchName(raw string) *EnvError {
	return New(KindValidation, fmt.Sprintf("invalid branch name: %q", raw))
}

// InvalidPort returns an error for a rejected starting port
func InvalidPort(message string) *EnvError {
	return New(KindValidation, message)
}

// UnknownShell returns an error for an unsupported completion shell
func UnknownShell(shell string) *EnvError {
	return New(KindValidation, fmt.Sprintf("unknown shell: %s (supported: bash, zsh)", shell))
}

// WorktreeNotFound returns an error for a missing branch slot
func WorktreeNotFound(branch string) *EnvError {
	return New(KindNotFound, fmt.Sprintf("no such worktree: %s", branch))
}

// PortAllocationFailed returns an error for port allocation failure
func PortAllocationFailed(cause error) *EnvError {
	return Wrap(KindPortAllocation, "failed to allocate port", cause)
}

// ContainerFailed returns an error for container operations
func ContainerFailed(op string, cause error) *EnvError {
	return Wrap(KindContainer, fmt.Sprintf("container %s failed", op), cause)
}

// WorkspaceError returns an error for workspace operations
func WorkspaceError(op string, cause error) *EnvError {
	return Wrap(KindWorkspace, fmt.Sprintf("workspace %s failed", op), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *EnvError {
	return Wrap(KindConfig, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *EnvError {
	return New(KindValidation, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var envErr *EnvError
	if errors.As(err, &envErr) {
		return envErr.ExitCode()
	}
	return ExitGeneralError
}

// KindOf returns the kind of the first EnvError in err's chain.
func KindOf(err error) Kind {
	var envErr *EnvError
	if errors.As(err, &envErr) {
		return envErr.Kind
	}
	return KindGeneral
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
