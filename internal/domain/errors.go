package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure into a machine-readable category.
type ErrorKind string

const (
	// KindValidation indicates malformed or missing input.
	KindValidation ErrorKind = "validation"
	// KindNotFound indicates a referenced entity is absent.
	KindNotFound ErrorKind = "not_found"
	// KindPermission indicates the caller lacks the required role.
	KindPermission ErrorKind = "permission"
	// KindConcurrency indicates a stale version was supplied for an update.
	KindConcurrency ErrorKind = "concurrency"
)

// Error is the single error family shared by all use cases. It carries a
// machine-readable kind and a human message for the acting client.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches errors of the same kind so callers can use errors.Is with the
// sentinel constructors below.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// NewValidationError reports malformed or missing input.
func NewValidationError(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports an absent entity by its display name.
func NewNotFoundError(entity string) error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// NewPermissionError reports an authorization failure.
func NewPermissionError(message string) error {
	return &Error{Kind: KindPermission, Message: message}
}

// NewConcurrencyError reports a version conflict on update.
func NewConcurrencyError(message string) error {
	return &Error{Kind: KindConcurrency, Message: message}
}

// KindOf extracts the error kind, or an empty kind for foreign errors.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}
