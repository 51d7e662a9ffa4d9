// Package apperr classifies request failures so handlers can map them to
// HTTP statuses without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the failure classification.
type Kind int

const (
	// KindValidation marks malformed or constraint-violating input.
	KindValidation Kind = iota + 1
	// KindNotFound marks a referenced entity that is absent or not
	// owned by the caller.
	KindNotFound
	// KindConflict marks an operation that would violate an invariant.
	KindConflict
	// KindAuth marks missing or invalid credentials.
	KindAuth
)

// Error carries a classification alongside the message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation builds a KindValidation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a KindConflict error.
func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Auth builds a KindAuth error.
func Auth(format string, args ...any) error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries the given classification anywhere
// in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// StatusOf maps an error chain to the HTTP status it should produce.
// Unclassified errors are internal.
func StatusOf(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
