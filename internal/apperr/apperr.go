// Package apperr defines the failure taxonomy shared by the catalog core.
// Every failure leaving the store layer is one of exactly three kinds, so
// callers never inspect backend-specific error shapes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind discriminates the failure taxonomy
type Kind int

const (
	// KindNotFound means no record matched the given identifier or slug
	KindNotFound Kind = iota
	// KindConflict means a unique constraint was violated on write
	KindConflict
	// KindInternal covers everything else; details stay server-side
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is the single tagged failure variant produced by the catalog core.
type Error struct {
	Kind   Kind
	Detail string // actionable message for NotFound/Conflict; generic for Internal
	Err    error  // underlying cause, never surfaced for Internal
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that no record matched the given field/value pair.
func NotFound(field, value string) *Error {
	return &Error{
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("product with %s %s not found", field, value),
	}
}

// Conflict reports a unique-constraint violation with the constraint detail
// from the store.
func Conflict(detail string, err error) *Error {
	return &Error{
		Kind:   KindConflict,
		Detail: detail,
		Err:    err,
	}
}

// Internal wraps an unexpected failure. The cause is kept for server-side
// logging; the surfaced message never leaks infrastructure detail.
func Internal(err error) *Error {
	return &Error{
		Kind:   KindInternal,
		Detail: "unexpected error, check server logs",
		Err:    err,
	}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// report KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
