package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the HTTP layer
type Kind int

const (
	KindInternal        Kind = iota // Unexpected persistence or integrity failure
	KindValidation                  // Missing or invalid fields
	KindConflict                    // Uniqueness violation
	KindNotFound                    // Unknown id
	KindUnauthenticated             // Missing or invalid credentials
	KindForbidden                   // Authenticated but not allowed
)

// Error is the error type every layer above the store returns
type Error struct {
	Kind    Kind   // Failure class
	Message string // Client-facing detail
	Err     error  // Underlying cause, never sent to clients
}

// Error includes the cause for logs; clients only see Message
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *Error) Unwrap() error { return e.Err }

// Validation reports missing or malformed input
func Validation(message string) *Error { return &Error{Kind: KindValidation, Message: message} }

// Conflict reports a uniqueness collision
func Conflict(message string) *Error { return &Error{Kind: KindConflict, Message: message} }

// NotFound reports an unknown id
func NotFound(message string) *Error { return &Error{Kind: KindNotFound, Message: message} }

// Unauthenticated reports missing or rejected credentials
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Forbidden reports an authenticated caller acting outside its rights
func Forbidden(message string) *Error { return &Error{Kind: KindForbidden, Message: message} }

// Internal wraps an unexpected fault; err is logged, never sent
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal for anything that is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
