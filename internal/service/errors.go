package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a note id is absent from the expected
	// collection or belongs to another user. The two cases are deliberately
	// collapsed so callers cannot probe for other users' notes.
	ErrNotFound = errors.New("note not found")

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
