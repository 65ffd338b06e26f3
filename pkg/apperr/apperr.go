// Package apperr carries the fixed error taxonomy shared by handlers and
// domain components: every failure a caller can observe maps onto one of
// these kinds and from there onto an HTTP status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error class.
type Kind string

const (
	KindBadRequest   Kind = "BAD_REQUEST"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// HTTPStatus maps an error kind to its HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error with a caller-facing message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error with a fixed message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap classifies an underlying error. The underlying cause is kept for
// logs but never surfaced in the caller-facing message.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// BadRequest, Unauthorized, Forbidden, NotFound, Conflict and Internal
// are shorthands for the common constructors.
func BadRequest(msg string) *Error   { return New(KindBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg) }
func NotFound(msg string) *Error     { return New(KindNotFound, msg) }
func Conflict(msg string) *Error     { return New(KindConflict, msg) }
func Internal(msg string, err error) *Error {
	return Wrap(KindInternal, msg, err)
}

// KindOf extracts the Kind of err, defaulting to KindInternal for
// unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Message returns the caller-facing message for err. Unclassified errors
// get a generic message so internals never leak to clients.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Kind == KindInternal {
			return "internal error"
		}
		return ae.Msg
	}
	return "internal error"
}
