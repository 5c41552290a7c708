package errorz

import (
	"errors"
	"fmt"
)

var (
	Forbidden    = errors.New("forbidden")
	Unauthorized = errors.New("unauthorized")

	ErrNotFound               = errors.New("record not found")
	ErrDuplicate              = errors.New("duplicate record")
	ErrAlreadyRegistered      = errors.New("user already registered for event")
	ErrNotRegistered          = errors.New("user is not registered for event")
	ErrRegistrationInProgress = errors.New("registration change already in progress")
	ErrEventNotPast           = errors.New("comments are only allowed on past events")
	ErrEmailRequired          = errors.New("user email is required for reminders")
	ErrEmailNotConfigured     = errors.New("email service not configured")
	ErrTagModelUnavailable    = errors.New("tag suggestion model is not configured")
	ErrStorageNotConfigured   = errors.New("object storage is not configured")
)

// ValidationError is raised before any store call when user input is rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
