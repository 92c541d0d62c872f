// Package apperr defines the error taxonomy shared by the core, the services
// and the transports. Kinds are sentinel values matched with errors.Is; every
// returned error carries a human-readable message and optionally the cause.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoDocuments       = errors.New("no documents")
	ErrInternal          = errors.New("internal")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrAlreadyIssued     = errors.New("already issued")
)

// Error is a classified failure.
type Error struct {
	kind  error
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Unwrap exposes both the kind and the cause so errors.Is matches either.
func (e *Error) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

// Kind returns the sentinel kind.
func (e *Error) Kind() error { return e.kind }

func newf(kind error, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

func NotFound(format string, args ...any) error {
	return newf(ErrNotFound, nil, format, args...)
}

func AlreadyExists(format string, args ...any) error {
	return newf(ErrAlreadyExists, nil, format, args...)
}

func InvalidInput(cause error, format string, args ...any) error {
	return newf(ErrInvalidInput, cause, format, args...)
}

func NoDocuments(format string, args ...any) error {
	return newf(ErrNoDocuments, nil, format, args...)
}

func InvalidTransition(format string, args ...any) error {
	return newf(ErrInvalidTransition, nil, format, args...)
}

func AlreadyIssued(format string, args ...any) error {
	return newf(ErrAlreadyIssued, nil, format, args...)
}

// Internal wraps an underlying failure (usually from the record store).
// An error that is already classified is returned unchanged.
func Internal(cause error, format string, args ...any) error {
	var classified *Error
	if errors.As(cause, &classified) {
		return cause
	}
	return newf(ErrInternal, cause, format, args...)
}

// Kind labels, stable for transports and metrics.
const (
	KindNone              = ""
	KindNotFound          = "NotFound"
	KindAlreadyExists     = "AlreadyExists"
	KindInvalidInput      = "InvalidInput"
	KindNoDocuments       = "NoDocuments"
	KindInternal          = "Internal"
	KindInvalidTransition = "InvalidTransition"
	KindAlreadyIssued     = "AlreadyIssued"
)

// KindOf returns the label of err's kind. Unclassified errors are Internal.
func KindOf(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrNoDocuments):
		return KindNoDocuments
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrAlreadyIssued):
		return KindAlreadyIssued
	default:
		return KindInternal
	}
}
