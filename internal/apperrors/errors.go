// Package apperrors carries a typed code alongside an error so that the
// HTTP layer can pick a status without string matching.
//
//	err := apperrors.Wrap(apperrors.CodeFetchFailed, "fetch csv", cause)
//	if apperrors.HasCode(err, apperrors.CodeFetchFailed) { ... }
package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code int

const (
	CodeUnknown Code = 1

	// Validation (100-199)
	CodeInvalidParameter     Code = 100
	CodeInvalidConfiguration Code = 101
	CodeInvalidSettings      Code = 102

	// Data (200-299)
	CodeFetchFailed Code = 200
	CodeParseFailed Code = 201
	CodeNoData      Code = 202

	// Storage (300-399)
	CodeStorageFailed Code = 300

	// Rendering (400-499)
	CodeRenderFailed Code = 400
)

// Error is an error with a Code and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// New creates an Error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code and message to cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf attaches code and a formatted message to cause.
func Wrapf(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// GetCode returns the Code of the first *Error in err's chain, or CodeUnknown.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HasCode reports whether err carries code.
func HasCode(err error, code Code) bool {
	return GetCode(err) == code
}
