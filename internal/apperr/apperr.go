// Package apperr defines the typed errors services return and handlers
// translate to HTTP exactly once. Anything that is not an *Error surfaces
// as a generic 500 with no internal detail leaked to the client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP translation.
type Kind int

const (
	KindBadRequest Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// FieldError describes a single failed validation on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the application error carried from services to handlers.
type Error struct {
	kind    Kind
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

// Status maps the error kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.kind {
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

func newError(kind Kind, message string) *Error {
	return &Error{kind: kind, Message: message}
}

func BadRequest(message string) *Error   { return newError(KindBadRequest, message) }
func Unauthorized(message string) *Error { return newError(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return newError(KindForbidden, message) }
func NotFound(message string) *Error     { return newError(KindNotFound, message) }
func Conflict(message string) *Error     { return newError(KindConflict, message) }

// Validation builds a BadRequest carrying a field-error list.
func Validation(message string, fields ...FieldError) *Error {
	e := newError(KindBadRequest, message)
	e.Fields = fields
	return e
}

// Wrap attaches a cause for logging without changing what the client sees.
func (e *Error) Wrap(cause error) *Error {
	e.cause = cause
	return e
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if appErr, ok := As(err); ok {
		return appErr.kind == kind
	}
	return false
}
