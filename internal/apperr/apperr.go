package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. Handlers translate
// kinds to HTTP status codes; services never deal with HTTP directly.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindInvalidInput
	KindUnavailable
)

// Error is a service-level error with a stable machine-readable code
// and a human-readable message. The wrapped cause (if any) stays
// internal and is never exposed to callers of the HTTP API.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets sentinel errors match wrapped copies of themselves by code,
// so errors.Is(apperr.Wrap(err, ErrNoSeatsAvailable), ErrNoSeatsAvailable)
// holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a cause to a sentinel, keeping its kind/code/message.
func Wrap(err error, sentinel *Error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf extracts the stable code from an error chain.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}

// MessageOf extracts the user-safe message from an error chain.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
