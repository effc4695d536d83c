package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound = errors.New("not found")

	// ErrConfiguration is returned when no database connection string is configured.
	ErrConfiguration = errors.New("database connection string is not configured")
	// ErrConnection is returned when the database cannot be reached or rejects the credentials.
	ErrConnection = errors.New("database connection failed")
)

// Validation error kinds. A *ValidationError unwraps to exactly one of these,
// so callers can match with errors.Is(err, domain.ErrInvalidFormat).
var (
	ErrMissingField  = errors.New("missing field")
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidValue  = errors.New("invalid value")
	ErrNonEmpty      = errors.New("must not be empty")
	ErrReference     = errors.New("invalid reference")
	ErrUniqueness    = errors.New("uniqueness violation")
)

// ValidationError describes why a record was rejected before (or while) being written.
type ValidationError struct {
	Field   string
	Kind    error
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// NewValidationError returns a ValidationError of the given kind for field.
func NewValidationError(kind error, field, message string) *ValidationError {
	return &ValidationError{Field: field, Kind: kind, Message: message}
}

// Uniqueness violations reported by the storage layer.
var (
	ErrDuplicateSlug    = NewValidationError(ErrUniqueness, "slug", "an event with this slug already exists")
	ErrDuplicateBooking = NewValidationError(ErrUniqueness, "email", "this email has already booked the event")
)

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
