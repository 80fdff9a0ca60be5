package planner

import "errors"

var (
	// ErrNotFound covers both a missing row and a row owned by someone else.
	ErrNotFound = errors.New("not found")

	// ErrConflict matches any uniqueness failure, including the more
	// specific ErrUsernameTaken and ErrEmailTaken.
	ErrConflict = errors.New("conflict")

	ErrUsernameTaken error = &conflictError{"username already exists"}
	ErrEmailTaken    error = &conflictError{"email already exists"}

	ErrInvalidCredentials = errors.New("invalid credentials")
)

type conflictError struct {
	msg string
}

func (e *conflictError) Error() string { return e.msg }

func (e *conflictError) Is(target error) bool { return target == ErrConflict }

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
