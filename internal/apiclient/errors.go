package apiclient

import (
	"errors"
	"fmt"
)

// Sentinel errors for backend calls.
var (
	// ErrTransport marks failures where no HTTP response was obtained.
	ErrTransport = errors.New("apiclient: transport failure")
	// ErrDecode marks a success response whose body could not be decoded.
	ErrDecode = errors.New("apiclient: malformed response body")
)

// RequestError is a non-success response of the backend.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP Error %d", e.Status)
	}
	return e.Message
}

// HasMessage reports whether the backend supplied its own error message.
func (e *RequestError) HasMessage() bool {
	return e.Message != ""
}

// Error wraps an underlying error with operation context.
type Error struct {
	Op   string // Operation: "listBooks", "addBook", "loanBook", ...
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("apiclient %s [%s]: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, path string, err error) error {
	return &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// transportError marks err as a transport failure while keeping its cause.
func transportError(err error) error {
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
