package workspace

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired is returned when an unauthenticated session attempts
	// an operation reserved for logged-in users, such as saving a note.
	ErrAuthRequired = errors.New("login required")
	// ErrNoActiveNote is returned when an operation needs an active note and
	// none is selected.
	ErrNoActiveNote = errors.New("no active note")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when signing up with a username that is
	// already registered (comparison is case-insensitive).
	ErrUsernameTaken = errors.New("username already taken")
	// ErrBadCredentials is returned on login with an unknown username or a
	// wrong password.
	ErrBadCredentials = errors.New("invalid username or password")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
