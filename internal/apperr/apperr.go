// Package apperr holds the error taxonomy of the comparison engine. Services return
// these typed errors and the HTTP layer maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of an error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation marks malformed input, rejected before any collaborator call.
	KindValidation
	// KindDependency marks a collaborator that is unavailable for the whole request.
	KindDependency
	// KindTimeout marks a request in which no store completed before the deadline.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDependency:
		return "dependency"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a typed engine error.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindDependency:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a validation error. The message is shown to the caller verbatim.
func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Dependency wraps a collaborator failure.
func Dependency(op, message string, err error) *Error {
	return &Error{Kind: KindDependency, Op: op, Message: message, Err: err}
}

// Timeout wraps a deadline that expired before any result was available.
func Timeout(op, message string, err error) *Error {
	return &Error{Kind: KindTimeout, Op: op, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// StoreFailure records a single store dropped from a comparison because its catalog
// could not be fetched in time. A comparison that still prices other stores only
// logs it. When no store could be priced, the first StoreFailure becomes the cause
// of the returned Timeout or Dependency error.
type StoreFailure struct {
	StoreID int64
	Err     error
}

func (f *StoreFailure) Error() string {
	return fmt.Sprintf("store %d: %v", f.StoreID, f.Err)
}

func (f *StoreFailure) Unwrap() error {
	return f.Err
}
