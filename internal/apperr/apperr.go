// Package apperr defines the error kinds surfaced by the scheduling core.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is one of the error kinds the core is allowed to produce.
type Kind string

const (
	NotFound     Kind = "not_found"
	Conflict     Kind = "conflict"
	NoSlot       Kind = "no_slot"
	InvalidState Kind = "invalid_state"
	Forbidden    Kind = "forbidden"
	InvalidInput Kind = "invalid_input"
)

// Error wraps an underlying cause with a classification the HTTP layer
// and callers can switch on without parsing strings.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func new_(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

func NotFoundf(format string, a ...any) error {
	return new_(NotFound, fmt.Sprintf(format, a...), nil)
}

func Conflictf(format string, a ...any) error {
	return new_(Conflict, fmt.Sprintf(format, a...), nil)
}

func NoSlotf(format string, a ...any) error {
	return new_(NoSlot, fmt.Sprintf(format, a...), nil)
}

func InvalidStatef(format string, a ...any) error {
	return new_(InvalidState, fmt.Sprintf(format, a...), nil)
}

func Forbiddenf(format string, a ...any) error {
	return new_(Forbidden, fmt.Sprintf(format, a...), nil)
}

func InvalidInputf(format string, a ...any) error {
	return new_(InvalidInput, fmt.Sprintf(format, a...), nil)
}

func Wrap(kind Kind, msg string, cause error) error {
	return new_(kind, msg, cause)
}

// KindOf returns the Kind of err if it (or something it wraps) is an
// *Error, and false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// Is reports whether err classifies as kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
