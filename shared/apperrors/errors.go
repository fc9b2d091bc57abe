// Package apperrors defines the error kinds shared by every service.
// Repositories and services return *Error values; handlers translate the
// kind into an HTTP status and a user-facing message.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindStore
	KindAuth
	KindPartialFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not found"
	case KindStore:
		return "store"
	case KindAuth:
		return "auth"
	case KindPartialFailure:
		return "partial failure"
	default:
		return "unknown"
	}
}

// Error carries a kind, a message that is safe to show to the caller and
// an optional wrapped cause that is only ever logged.
type Error struct {
	Kind    Kind
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

// Is matches any *Error of the same kind when the target carries no
// message, so errors.Is(err, ErrNotFound) works for every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return e.Kind == t.Kind
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Kind sentinels for errors.Is.
var (
	ErrValidation     = &Error{Kind: KindValidation}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrStore          = &Error{Kind: KindStore}
	ErrAuth           = &Error{Kind: KindAuth}
	ErrPartialFailure = &Error{Kind: KindPartialFailure}
)

func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Auth(message string) error {
	return &Error{Kind: KindAuth, Message: message}
}

// Store wraps a failed data operation. op names the operation for logs.
func Store(op string, err error) error {
	return &Error{Kind: KindStore, Message: "failed to " + op, Err: err}
}

func PartialFailure(message string, err error) error {
	return &Error{Kind: KindPartialFailure, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message of err, or fallback when err is
// not an *Error.
func MessageOf(err error, fallback string) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
