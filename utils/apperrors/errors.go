package apperrors

import "errors"

// Sentinel errors for the service layer. Handlers map these onto HTTP status
// codes through utils/response.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// Error wraps a sentinel with a user-facing message.
type Error struct {
	Kind    error
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

// Unwrap implements errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Kind
}

// NewValidation creates a 400-class error
func NewValidation(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

// NewUnauthorized creates a 401-class error
func NewUnauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// NewForbidden creates a 403-class error
func NewForbidden(message string) error {
	return &Error{Kind: ErrForbidden, Message: message}
}

// NewNotFound creates a 404-class error
func NewNotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// NewConflict creates a 409-class error
func NewConflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}
