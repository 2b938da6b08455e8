// Package apperr defines the error taxonomy shared by the domain services and
// the HTTP layer. Every error carries a Kind, which decides the HTTP status,
// and a Code, which is the machine-readable reason returned to clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindInternal   Kind = "internal"
)

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an error of the given kind.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *Error { return New(KindValidation, code, message) }
func Conflict(code, message string) *Error   { return New(KindConflict, code, message) }
func NotFound(code, message string) *Error   { return New(KindNotFound, code, message) }
func Forbidden(code, message string) *Error  { return New(KindForbidden, code, message) }

// Internal wraps an unexpected failure, usually from the datastore.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL", Message: message, Cause: cause}
}

// ErrForbidden is returned when the caller's role or ownership does not allow
// the operation.
var ErrForbidden = Forbidden("FORBIDDEN", "not allowed to perform this operation")

// From extracts the first *Error in err's chain. Unclassified errors come back
// as KindInternal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal error", err)
}
