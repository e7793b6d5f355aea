package clierr

import (
	"errors"
	"fmt"
)

// Exit codes form the process-level outcome taxonomy. Automation keys off
// these, so they are part of the CLI contract and must stay stable.
const (
	CodeSuccess           = 0
	CodeFailure           = 1
	CodeUsage             = 2
	CodeIO                = 3
	CodeRepository        = 4
	CodeConfig            = 5
	CodeDependencyMissing = 6
)

type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	// Keep this stable and user-facing; don't include code here.
	// Include cause only if present, in a deterministic way.
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *ExitError) Unwrap() error { return e.cause }

// Code returns the exit code (optional convenience; keeps fields private).
func (e *ExitError) Code() int { return e.code }

// Message returns the top-level message (optional convenience).
func (e *ExitError) Message() string { return e.msg }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError that wraps an underlying cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// Newf is a formatted variant.
func Newf(code int, format string, args ...any) error {
	return &ExitError{code: normalize(code), msg: fmt.Sprintf(format, args...)}
}

// Usage reports a malformed invocation.
func Usage(msg string) error { return New(CodeUsage, msg) }

// IO reports an unreadable or missing target path.
func IO(msg string, cause error) error { return Wrap(CodeIO, msg, cause) }

// Repository reports a structural or cryptographic audit failure, or a path
// that is not a repository at all.
func Repository(msg string, cause error) error { return Wrap(CodeRepository, msg, cause) }

// Config reports missing or unusable signing configuration.
func Config(msg string, cause error) error { return Wrap(CodeConfig, msg, cause) }

// ExitCodeOf extracts an exit code from any error, defaulting to 1.
// This keeps main() dumb and avoids duplicating errors.As logic everywhere.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return CodeFailure
}

func normalize(code int) int {
	// Exit code 0 means success; errors should never be 0.
	if code <= 0 {
		return CodeFailure
	}
	return code
}
