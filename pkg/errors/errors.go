// Package errors provides structured error types for nestsquare.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that the CLI and the display server can map it to an exit status
// or an HTTP status without string matching.
//
// # Error Codes
//
//   - INVALID_*: input validation failures (values, colors, formats, config)
//   - LENGTH_MISMATCH: label or color series not aligned with the values
//   - *_NOT_FOUND: unknown preset
//   - INTERNAL_ERROR: unexpected failures in a renderer or the cache
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "value %d is negative", i)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // caller must fix the input
//	}
//
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "render %s", format)
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
	ErrCodeLengthMismatch   Code = "LENGTH_MISMATCH"
	ErrCodeInvalidColor     Code = "INVALID_COLOR"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidAlignment Code = "INVALID_ALIGNMENT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidName      Code = "INVALID_NAME"

	// Resource not found errors
	ErrCodePresetNotFound Code = "PRESET_NOT_FOUND"

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

// IsValidation reports whether err is a caller-side input failure, i.e. one
// that retrying with the same input can never fix.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeLengthMismatch, ErrCodeInvalidColor,
		ErrCodeInvalidFormat, ErrCodeInvalidAlignment, ErrCodeInvalidConfig,
		ErrCodeInvalidName:
		return true
	}
	return false
}
