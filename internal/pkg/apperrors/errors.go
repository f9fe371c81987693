package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrAccountDisabled  = errors.New("account is disabled")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Collaborator errors
	ErrStorage  = errors.New("storage failure")
	ErrDelivery = errors.New("delivery failure")
)

// Conflict variants. Each one unwraps to ErrConflict.
var (
	ErrEmailAlreadyExists = &CustomError{Err: ErrConflict, Message: "email already exists", Code: "email_taken"}
	ErrAdminAlreadyExists = &CustomError{Err: ErrConflict, Message: "an admin account already exists", Code: "admin_exists"}
	ErrAlreadyEnrolled    = &CustomError{Err: ErrConflict, Message: "student is already enrolled in this course", Code: "already_enrolled"}
)

// Kind is the machine-readable class of an error.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
	KindStorage         Kind = "storage"
	KindDelivery        Kind = "delivery"
	KindInternal        Kind = "internal"
)

// KindOf classifies err. Unknown errors are internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidationFailed):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrResourceNotFound):
		return KindNotFound
	case Is(err, ErrInvalidCredentials, ErrTokenExpired, ErrTokenInvalid, ErrTokenRevoked):
		return KindUnauthenticated
	case Is(err, ErrPermissionDenied, ErrAccountDisabled):
		return KindForbidden
	case errors.Is(err, ErrStorage):
		return KindStorage
	case errors.Is(err, ErrDelivery):
		return KindDelivery
	default:
		return KindInternal
	}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewStorageError wraps a file storage failure.
func NewStorageError(message string, cause error) error {
	return &CustomError{
		Err:     ErrStorage,
		Message: message,
		cause:   cause,
	}
}

// NewDeliveryError wraps an outbound email failure.
func NewDeliveryError(message string, cause error) error {
	return &CustomError{
		Err:     ErrDelivery,
		Message: message,
		cause:   cause,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}

	cause error
}

// Error implements error interface
func (e *CustomError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "unknown error"
	}
	if e.cause != nil {
		return msg + ": " + e.cause.Error()
	}
	return msg
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *CustomError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// PublicMessage is the message safe to show to API clients.
func (e *CustomError) PublicMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// FieldError is one failed field of a validated input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field failure of one input.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError returns an empty collector.
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// Add records a failure for field.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// Merge appends the failures of other, which may be nil.
func (e *ValidationError) Merge(other *ValidationError) *ValidationError {
	if other != nil {
		e.Fields = append(e.Fields, other.Fields...)
	}
	return e
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// ErrOrNil returns e as an error only when it holds failures.
func (e *ValidationError) ErrOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// HasField reports whether field failed.
func (e *ValidationError) HasField(field string) bool {
	if e == nil {
		return false
	}
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) Error() string {
	if !e.HasErrors() {
		return ErrValidationFailed.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
