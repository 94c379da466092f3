package apperrors

import "errors"

// Resource errors
var (
	ErrStudentNotFound = errors.New("student not found")
)

// Conflict errors (uniqueness violations against records other than the one
// being edited)
var (
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")
)

// Validation errors, detected locally before any network call
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrMissingFields    = errors.New("username, email and password are required")
	ErrNonInstitutional = errors.New("email must belong to the institutional domain")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	ErrBadRequest       = errors.New("bad request")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrPermissionDenied   = errors.New("permission denied")
)

// Collaborator errors
var (
	ErrUploadFailed = errors.New("photo upload failed")
	ErrPersistence  = errors.New("persistence failure")
	ErrChatUpstream = errors.New("chat completion upstream failed")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Field   string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithField tags the error with the offending field name
func (e *CustomError) WithField(field string) *CustomError {
	e.Field = field
	return e
}

// NewValidationError creates a validation error with a message
func NewValidationError(message string) *CustomError {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) *CustomError {
	return &CustomError{Err: ErrStudentNotFound, Message: message}
}

// NewPersistenceError wraps a document-store failure
func NewPersistenceError(cause error) *CustomError {
	return &CustomError{Err: ErrPersistence, Message: cause.Error()}
}
