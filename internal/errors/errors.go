// Package errors provides coded errors for failures detected on this side
// of the backend API.
//
// Validation errors carry a message written for the reader of the page and
// are shown as is; every other code is logged and replaced by a generic text.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)

// Code represents a machine-readable error code.
type Code string

const (
	CodeValidation Code = "VALIDATION"
	CodeInternal   Code = "INTERNAL"
)

// Error is a coded error with a message and optional per-field details.
type Error struct {
	Code    Code
	Message string
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetails returns a copy of the error carrying details.
func (e *Error) WithDetails(details map[string]string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details}
}

// Sentinels for errors.Is.
var (
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

// Validation creates a validation error whose message is shown to the user.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// UserMessage returns the message of a validation error found in err's
// chain, or fallback for anything else.
func UserMessage(err error, fallback string) string {
	var coded *Error
	if errors.As(err, &coded) && coded.Code == CodeValidation {
		return coded.Message
	}
	return fallback
}
