// Package errors provides structured error types for avatarshuffle.
//
// Every failure that can reach a user carries a machine-readable [Code] so the
// CLI, the HTTP service and the plugin run handler can decide how to react
// without matching on message text:
//
//   - NO_ELIGIBLE_STYLES: a category filter matched no style (retry without it)
//   - CONFIGURATION: required settings are missing (fatal to the run)
//   - UPSTREAM_*, RATE_LIMITED, UNAUTHORIZED: avatar generation failed
//   - APPLY_FAILED: a single node could not receive its fill (logged, not fatal)
//   - INVALID_*: input validation failures
//
// # Usage
//
//	err := errors.NoEligibleStyles("Robots")
//	if errors.Is(err, errors.ErrCodeNoEligibleStyles) {
//	    // offer to retry without a category
//	}
//
//	err := errors.Wrap(errors.ErrCodeApply, cause, "apply style %s", key)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidCategory Code = "INVALID_CATEGORY"
	ErrCodeInvalidPrompt   Code = "INVALID_PROMPT"
	ErrCodeEmptySelection  Code = "EMPTY_SELECTION"

	// Selection errors
	ErrCodeNoEligibleStyles Code = "NO_ELIGIBLE_STYLES"

	// Configuration errors
	ErrCodeConfiguration Code = "CONFIGURATION"

	// Upstream (avatar generation) errors
	ErrCodeUpstreamServer  Code = "UPSTREAM_SERVER"
	ErrCodeRateLimited     Code = "RATE_LIMITED"
	ErrCodeUnauthorized    Code = "UNAUTHORIZED"
	ErrCodeUpstreamUnknown Code = "UPSTREAM_UNKNOWN"

	// Per-node errors
	ErrCodeApply Code = "APPLY_FAILED"

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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// NoEligibleStyles reports that the pool filtered by category is empty.
func NoEligibleStyles(category string) *Error {
	if category == "" {
		return New(ErrCodeNoEligibleStyles, "no eligible styles")
	}
	return New(ErrCodeNoEligibleStyles, "no eligible styles for category %s", category)
}

// Configuration reports missing required settings by name.
func Configuration(missing ...string) *Error {
	return New(ErrCodeConfiguration, "missing configuration: %v", missing)
}

// IsUpstream reports whether err is one of the avatar generation failures.
func IsUpstream(err error) bool {
	switch GetCode(err) {
	case ErrCodeUpstreamServer, ErrCodeRateLimited, ErrCodeUnauthorized, ErrCodeUpstreamUnknown:
		return true
	}
	return false
}

// IsFatal reports whether err must abort a run. Apply failures are the only
// errors a run survives.
func IsFatal(err error) bool {
	return err != nil && GetCode(err) != ErrCodeApply
}

// HTTPStatus maps an error to the status code the HTTP service responds with.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidCategory, ErrCodeInvalidPrompt, ErrCodeEmptySelection:
		return http.StatusBadRequest
	case ErrCodeNoEligibleStyles:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeUnauthorized, ErrCodeUpstreamServer, ErrCodeUpstreamUnknown:
		return http.StatusBadGateway
	case ErrCodeConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
