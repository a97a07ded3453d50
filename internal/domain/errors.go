package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for both unknown usernames and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username already exists")
	ErrNoteNotFound       = errors.New("note not found")
	ErrTokenNotFound      = errors.New("remember token not found")
	ErrTokenExpired       = errors.New("remember token expired")
	ErrExportNotFound     = errors.New("export not found")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError describes malformed, missing or oversized input.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
