package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is the common base for every authentication failure.
// The wrapped variants keep the precise cause available for diagnostics
// while callers checking errors.Is(err, ErrUnauthorized) see one uniform
// unauthorized outcome.
var ErrUnauthorized = errors.New("unauthorized")

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrTokenExpired       = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenMalformed     = fmt.Errorf("%w: token malformed", ErrUnauthorized)
	ErrTokenSignature     = fmt.Errorf("%w: bad token signature", ErrUnauthorized)
)

// ErrConflict is the common base for uniqueness violations.
var ErrConflict = errors.New("conflict")

var (
	ErrUsernameTaken = fmt.Errorf("%w: username already registered", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email already registered", ErrConflict)
)

var (
	ErrForbidden    = errors.New("access forbidden")
	ErrUserNotFound = errors.New("user not found")
	ErrSelfDelete   = errors.New("cannot delete own account")
)

// ValidationError reports malformed input or a policy violation with
// field-level detail. Always recoverable by the caller.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
