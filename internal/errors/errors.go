package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Exit codes returned by the vmstat and vmsnapd binaries.
const (
	ExitSuccess       = 0   // Report printed or daemon stopped cleanly.
	ExitErrorGeneric  = 1   // Unclassified failure.
	ExitErrorSource   = 2   // A counter source could not be read.
	ExitErrorTransfer = 3   // The snapshot could not be delivered.
	ExitErrorConfig   = 4   // Invalid flags, env or config file.
	ExitErrorCanceled = 130 // Interrupted (e.g., SIGINT).
)

// InvalidRequestError is returned by the transport when a request carries a
// command code it does not recognise. The core never produces it.
type InvalidRequestError struct {
	Code uint32
}

func (e InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: unknown command 0x%08x", e.Code)
}

// SourceUnavailableError reports that a counter source could not be read.
// The whole snapshot fails with it; partial snapshots are never returned.
type SourceUnavailableError struct {
	// Counter names the source that failed, e.g. "meminfo" or "interrupts".
	Counter string
	// Cause is the underlying read error. It may be nil when the failure
	// was reported remotely and only its message survived.
	Cause error
}

func (e SourceUnavailableError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("counter source %s unavailable", e.Counter)
	}
	return fmt.Sprintf("counter source %s unavailable: %v", e.Counter, e.Cause)
}

// Unwrap returns the underlying read error.
func (e SourceUnavailableError) Unwrap() error { return e.Cause }

// NewSourceUnavailable wraps err as a SourceUnavailableError for counter.
// It returns nil if err is nil and leaves an existing
// SourceUnavailableError untouched.
func NewSourceUnavailable(counter string, err error) error {
	if err == nil {
		return nil
	}
	var sue SourceUnavailableError
	if errors.As(err, &sue) {
		return err
	}
	return SourceUnavailableError{Counter: counter, Cause: err}
}

// TransferError reports that a completed snapshot could not be delivered
// to, or received from, the other end of the transport.
type TransferError struct {
	Op    string
	Cause error
}

func (e TransferError) Error() string {
	return fmt.Sprintf("transfer %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying I/O error.
func (e TransferError) Unwrap() error { return e.Cause }

// ConfigError represents a user configuration error such as an invalid
// flag value or a malformed config file.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfgErr      ConfigError
		sourceErr   SourceUnavailableError
		transferErr TransferError
	)
	switch {
	case IsContextError(err):
		return ExitErrorCanceled
	case errors.As(err, &cfgErr):
		return ExitErrorConfig
	case errors.As(err, &sourceErr):
		return ExitErrorSource
	case errors.As(err, &transferErr):
		return ExitErrorTransfer
	default:
		return ExitErrorGeneric
	}
}
