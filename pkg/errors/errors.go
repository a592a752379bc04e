// Package errors provides structured error types for the halftone generator.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and preview server
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures (bad config, bad style name)
//   - *_IMAGE: problems with the input image itself
//   - STEP_LIMIT: a flow-field streamline hit its step cap (recoverable)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "cell_size must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // abort the whole batch: caller programming error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidImage, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input image errors. InvalidImage aborts the render for that image;
	// DegenerateImage is observable but the caller may proceed with a warning.
	ErrCodeInvalidImage    Code = "INVALID_IMAGE"
	ErrCodeDegenerateImage Code = "DEGENERATE_IMAGE"

	// Configuration errors. These abort a whole batch since they indicate a
	// caller programming error rather than data variance.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"
	ErrCodeInvalidPreset Code = "INVALID_PRESET"

	// Flow-field tracing hit the per-streamline step cap. Recoverable: the
	// streamline is truncated and the rest of the image still renders.
	ErrCodeStepLimit Code = "STEP_LIMIT"

	// Resource errors.
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeFontNotFound Code = "FONT_NOT_FOUND"

	// Internal errors.
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
