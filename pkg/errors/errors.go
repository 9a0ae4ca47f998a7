// Package errors provides structured error types for the nrfg pipeline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library callers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes follow the failure taxonomy of the reconstruction pipeline:
//   - INVALID_*: Input validation failures (malformed model files, bad options)
//   - PRECONDITION: A stage or graph operation was called in the wrong state
//   - INCONSISTENT: Upstream data contradicts itself (e.g. a split nobody supports)
//   - AMBIGUOUS_ISOLATION: An isolation search did not yield exactly one point
//   - EXTERNAL_TOOL: An alignment, tree or consensus tool failed
//   - INTERNAL_*: Unexpected internal errors
//
// None of these are retried. The pipeline is a deterministic batch process and
// every failure propagates to the caller.
//
// # Usage
//
//	err := errors.New(errors.ErrCodePrecondition, "stage %s is not built", name)
//	if errors.Is(err, errors.ErrCodePrecondition) {
//	    // Handle misuse
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExternalTool, origErr, "align component %d", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidAccession Code = "INVALID_ACCESSION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidOption    Code = "INVALID_OPTION"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Pipeline errors
	ErrCodePrecondition       Code = "PRECONDITION"
	ErrCodeInconsistent       Code = "INCONSISTENT"
	ErrCodeAmbiguousIsolation Code = "AMBIGUOUS_ISOLATION"
	ErrCodeExternalTool       Code = "EXTERNAL_TOOL"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Precondition is shorthand for New(ErrCodePrecondition, ...).
func Precondition(format string, args ...any) *Error {
	return New(ErrCodePrecondition, format, args...)
}

// Inconsistent is shorthand for New(ErrCodeInconsistent, ...).
func Inconsistent(format string, args ...any) *Error {
	return New(ErrCodeInconsistent, format, args...)
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

// Warning is a non-fatal condition recorded by a stage. Stages keep going
// after a warning; the value that triggered it has already been clamped.
type Warning struct {
	Stage   string // Stage that produced the warning
	Message string
}

// String returns "stage: message".
func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
