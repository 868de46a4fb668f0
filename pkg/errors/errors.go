// Package errors defines the coded errors mapposter reports.
//
// Every failure a user can act on carries a Code: INVALID_* for bad input,
// lookup codes such as GEOCODE_FAILED and NO_MAP_DATA, network codes for
// Overpass and Nominatim trouble, RENDER_FAILED and INTERNAL_ERROR. The CLI
// prints the code with the message and derives its exit status from it.
//
//	if errors.Is(err, errors.ErrCodeInvalidTheme) {
//	    // suggest `mapposter themes`
//	}
//	return errors.Wrap(errors.ErrCodeNetwork, err, "street network for %s", key)
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"
	ErrCodeInvalidFont   Code = "INVALID_FONT"
	ErrCodeInvalidPin    Code = "INVALID_PIN"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Lookup errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeGeocode  Code = "GEOCODE_FAILED"
	ErrCodeNoData   Code = "NO_MAP_DATA"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Rendering errors
	ErrCodeRender      Code = "RENDER_FAILED"
	ErrCodeUnsupported Code = "UNSUPPORTED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the error text without code prefixes. For an *Error
// it is the message followed by the user message of its cause; other
// errors print as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// Exit statuses returned by ExitCode.
const (
	ExitFailure   = 1
	ExitUsage     = 2
	ExitNotFound  = 3
	ExitNetwork   = 4
	ExitCancelled = 130
)

// ExitCode maps err to a process exit status. Cancellation exits like an
// interrupted shell command.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return ExitCancelled
	}
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return ExitNetwork
	}
	switch code := GetCode(err); code {
	case ErrCodeNotFound, ErrCodeGeocode, ErrCodeNoData:
		return ExitNotFound
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeRateLimited:
		return ExitNetwork
	default:
		if strings.HasPrefix(string(code), "INVALID_") {
			return ExitUsage
		}
		return ExitFailure
	}
}

// RateLimitedError is returned when a map data service answers 429.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Service    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	svc := e.Service
	if svc == "" {
		svc = "service"
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limited: retry after %d seconds", svc, e.RetryAfter)
	}
	return svc + " rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
