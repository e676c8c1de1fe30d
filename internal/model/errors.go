// errors.go defines the error taxonomy and process exit codes for nihil.
//
// Every failure that crosses a package boundary is a *CLIError carrying an
// ErrorKind. The CLI layer maps kinds to distinct exit codes so scripts can
// tell "the daemon is down" apart from "that container does not exist"
// without parsing messages.
package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure. Kinds are coarse and user-facing;
// the wrapped error keeps the daemon's detail.
type ErrorKind string

const (
	// KindGeneral is the catch-all for failures with no more
	// specific classification.
	KindGeneral ErrorKind = "general"

	// KindEngineUnavailable means the Docker daemon cannot be reached.
	// Never retried: daemon availability is a precondition the user
	// controls, not a transient fault to mask.
	KindEngineUnavailable ErrorKind = "engine-unavailable"

	// KindNoImage means an image was required but none is available:
	// the local catalog is empty on the auto-create path, or an explicit
	// image is missing and could not be pulled.
	KindNoImage ErrorKind = "no-image"

	// KindNotFound means an operation required an existing container
	// that is absent.
	KindNotFound ErrorKind = "not-found"

	// KindNotRunning means exec targeted a container that exists but
	// is not running.
	KindNotRunning ErrorKind = "not-running"

	// KindInvalidState means a container is paused or in an
	// unrecognized state and the operation refuses to act blindly.
	KindInvalidState ErrorKind = "invalid-state"

	// KindConfiguration means the requested flags are invalid before
	// any daemon interaction (bad workspace path, bad name).
	KindConfiguration ErrorKind = "configuration"

	// KindNameConflict means a container with the requested name exists
	// but its recorded configuration is incompatible with the requested
	// flags. Surfaced rather than silently starting with stale config.
	KindNameConflict ErrorKind = "name-conflict"

	// KindContainerRunning means remove was attempted on a running
	// container without --force.
	KindContainerRunning ErrorKind = "container-running"
)

// ExitCode is the process exit code reported to the OS.
// The 2..5 block matches the exit codes of the original nihil releases
// so existing scripts keep working; later kinds extend the sequence.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unclassified failure.
	ExitGeneralError ExitCode = 1

	// ExitEngineUnavailable indicates the Docker daemon is unreachable.
	ExitEngineUnavailable ExitCode = 2

	// ExitNoImage indicates no usable image (empty catalog or failed pull).
	ExitNoImage ExitCode = 3

	// ExitNotFound indicates the target container does not exist.
	ExitNotFound ExitCode = 4

	// ExitNotRunning indicates exec targeted a stopped container.
	ExitNotRunning ExitCode = 5

	// ExitInvalidState indicates a paused/unknown container state.
	ExitInvalidState ExitCode = 6

	// ExitConfiguration indicates invalid flags or paths.
	ExitConfiguration ExitCode = 7

	// ExitNameConflict indicates an incompatible existing container.
	ExitNameConflict ExitCode = 8

	// ExitContainerRunning indicates remove without --force on a
	// running container.
	ExitContainerRunning ExitCode = 9
)

// exitCodes maps each kind to its process exit code.
var exitCodes = map[ErrorKind]ExitCode{
	KindGeneral:           ExitGeneralError,
	KindEngineUnavailable: ExitEngineUnavailable,
	KindNoImage:           ExitNoImage,
	KindNotFound:          ExitNotFound,
	KindNotRunning:        ExitNotRunning,
	KindInvalidState:      ExitInvalidState,
	KindConfiguration:     ExitConfiguration,
	KindNameConflict:      ExitNameConflict,
	KindContainerRunning:  ExitContainerRunning,
}

// CLIError is the error type crossing package boundaries. It carries a
// kind for classification and an optional wrapped cause.
type CLIError struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Message is the human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error satisfies the error interface.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for this error's kind.
func (e *CLIError) ExitCode() ExitCode {
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return ExitGeneralError
}

// NewError creates a CLIError with the given kind and message.
func NewError(kind ErrorKind, message string) *CLIError {
	return &CLIError{Kind: kind, Message: message}
}

// WrapError creates a CLIError wrapping an underlying cause.
func WrapError(kind ErrorKind, message string, err error) *CLIError {
	return &CLIError{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is (or wraps) a CLIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.Kind == kind
	}
	return false
}

// ExitCodeFor extracts the exit code from any error. Non-CLIError values
// map to ExitGeneralError.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	return ExitGeneralError
}
