package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness violation.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed or missing caller input. Its message is
// safe to return to the client.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError.
func Validation(msg string) error {
	return &ValidationError{Msg: msg}
}
