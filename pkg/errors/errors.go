// Package errors provides structured error types for the gplot driver.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into two categories mirroring where the failure is
// detected:
//   - Specification errors: detected from the call's arguments alone,
//     before any byte is written to the subprocess. Always fatal to
//     that call, never to the session.
//   - Protocol errors: detected while talking to the subprocess.
//     ErrCodeStuck additionally marks the session unusable until it
//     is restarted.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownOption, "no option matches %q", name)
//	if errors.Is(err, errors.ErrCodeUnknownOption) {
//	    // Handle specification error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExternalProcess, origErr, "while plotting")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Specification errors, detected before any subprocess I/O
	ErrCodeUnknownOption      Code = "UNKNOWN_OPTION"
	ErrCodeAmbiguousOption    Code = "AMBIGUOUS_OPTION"
	ErrCodeConflictingOptions Code = "CONFLICTING_OPTIONS"
	ErrCodeInvalidPlotStyle   Code = "INVALID_PLOT_STYLE"
	ErrCodeStyleNotSupported  Code = "STYLE_NOT_SUPPORTED"
	ErrCodeArityMismatch      Code = "ARITY_MISMATCH"
	ErrCodeThreadMismatch     Code = "THREAD_MISMATCH"
	ErrCodeLegendCount        Code = "LEGEND_COUNT_MISMATCH"
	ErrCodeTooManyOptionSets  Code = "TOO_MANY_OPTION_SETS"
	ErrCodeNoData             Code = "NO_DATA"
	ErrCodeInvalidOptionValue Code = "INVALID_OPTION_VALUE"

	// Protocol errors, detected during subprocess I/O
	ErrCodeStuck           Code = "STUCK"
	ErrCodeExternalProcess Code = "EXTERNAL_PROCESS_ERROR"

	// Ambient errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
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

// IsSpecification reports whether err is a specification error: one
// detected from the call's arguments alone, before any subprocess I/O.
func IsSpecification(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownOption, ErrCodeAmbiguousOption, ErrCodeConflictingOptions,
		ErrCodeInvalidPlotStyle, ErrCodeStyleNotSupported, ErrCodeArityMismatch,
		ErrCodeThreadMismatch, ErrCodeLegendCount, ErrCodeTooManyOptionSets,
		ErrCodeNoData, ErrCodeInvalidOptionValue:
		return true
	}
	return false
}
