package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Rate limiting
	ErrTooManyRequests = errors.New("too many requests")
)

// Category sentinels for drive rules
var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrSchedulingConflict      = errors.New("scheduling conflict")
)

// Coordinator errors
var (
	ErrCoordinatorNotFound error = &CustomError{Err: ErrResourceNotFound, Message: "Coordinator not found"}
	ErrEmailAlreadyExists  error = &CustomError{Err: ErrConflict, Message: "A coordinator with this email already exists"}
)

// Student errors
var (
	ErrStudentNotFound        error = &CustomError{Err: ErrResourceNotFound, Message: "Student not found"}
	ErrStudentIDAlreadyExists error = &CustomError{Err: ErrConflict, Message: "Student ID already exists"}
	ErrNoValidStudents        error = &CustomError{Err: ErrResourceNotFound, Message: "No valid students found"}
)

// Vaccination drive errors
var (
	ErrDriveNotFound           error = &CustomError{Err: ErrResourceNotFound, Message: "Vaccination drive not found"}
	ErrStudentNotEnrolled      error = &CustomError{Err: ErrResourceNotFound, Message: "Student not found in this vaccination drive"}
	ErrStudentsAlreadyEnrolled error = &CustomError{Err: ErrValidationFailed, Message: "All selected students are already in this drive"}
)

// Wrap returns a CustomError with a specific message around a sentinel
func Wrap(err error, format string, args ...interface{}) error {
	return &CustomError{
		Err:     err,
		Message: fmt.Sprintf(format, args...),
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

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a validation error with a user-facing message
func NewValidationError(format string, args ...interface{}) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: fmt.Sprintf(format, args...),
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

// Message returns the user-facing message carried by a CustomError in the chain,
// or fallback when there is none.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
