package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig = "CONFIG"
	ErrAPI    = "API"
	ErrAuth   = "AUTH"
	ErrDecode = "DECODE"
	ErrCache  = "CACHE"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrAPI code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrAPI,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// NewAuth creates the error returned when the server rejects the client,
// either with a 401 or by serving an HTML login page instead of JSON.
func NewAuth(endpoint string) *Error {
	return &Error{
		Code:       ErrAuth,
		Message:    fmt.Sprintf("Authentication required for %s", endpoint),
		Suggestion: "Log in through the server's auth gateway, or run 'lmon connect' with a reachable URL",
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var lmErr *Error
	if errors.As(err, &lmErr) {
		return lmErr.Code == code
	}
	return false
}

// IsAuth reports whether err aborted a request because of authentication.
func IsAuth(err error) bool {
	return IsCode(err, ErrAuth)
}

// Short returns the first line of a structured error without the failure
// symbol, for places like the dashboard footer that have one line to spare.
func Short(err error) string {
	if err == nil {
		return ""
	}
	var lmErr *Error
	if errors.As(err, &lmErr) {
		if lmErr.Cause != nil {
			return lmErr.Message + ": " + lmErr.Cause.Error()
		}
		return lmErr.Message
	}
	return err.Error()
}

// ExitError carries a process exit code without printing anything.
// 'lmon status' uses it to report warning and critical states to scripts.
type ExitError struct {
	Code int
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// GetExitCode extracts the exit code from an ExitError anywhere in the chain.
func GetExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}
