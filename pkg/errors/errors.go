// Package errors provides structured error types for the canopy CLI and its
// file-facing layers (scenes, themes, artifact cache).
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the preview server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// Library packages such as graph and render report failures through
// sentinel errors instead; the CLI wraps those with a code at the boundary.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *NOT_FOUND: Resource not found
//   - KIND_MISMATCH, CYCLE: widget graph contract violations
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidScene, "widget %q has no kind", name)
//	if errors.Is(err, errors.ErrCodeInvalidScene) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "read scene %s", path)
package errors

import (
	"errors"
	"fmt"
	"slices"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidScene  Code = "INVALID_SCENE"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidName   Code = "INVALID_NAME"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Widget graph contract errors
	ErrCodeKindMismatch Code = "KIND_MISMATCH"
	ErrCodeCycle        Code = "CYCLE"

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

// Is reports whether any *Error in err's tree has the given code. Both
// wrapped causes and errors combined with [errors.Join] are searched, since
// applying a scene reports one error per failing widget.
func Is(err error, code Code) bool {
	return slices.Contains(Codes(err), code)
}

// Codes returns the codes of every *Error in err's tree, outermost first.
func Codes(err error) []Code {
	var codes []Code
	walk(err, func(e *Error) { codes = append(codes, e.Code) })
	return codes
}

func walk(err error, fn func(*Error)) {
	switch e := err.(type) {
	case nil:
	case *Error:
		fn(e)
		walk(e.Cause, fn)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			walk(inner, fn)
		}
	default:
		walk(errors.Unwrap(err), fn)
	}
}

// GetCode extracts the outermost error code from an error, if available.
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

// Exit codes returned by [ExitCode].
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
)

// ExitCode maps err to a process exit status: usage errors for invalid
// input, a distinct status for missing files and a generic failure
// otherwise.
func ExitCode(err error) int {
	switch GetCode(err) {
	case "":
		if err == nil {
			return ExitOK
		}
		return ExitFailure
	case ErrCodeInvalidInput, ErrCodeInvalidScene, ErrCodeInvalidTheme,
		ErrCodeInvalidFormat, ErrCodeInvalidName, ErrCodeInvalidPath:
		return ExitUsage
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return ExitNotFound
	}
	return ExitFailure
}
