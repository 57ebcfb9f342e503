package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorKind classifies an error for callers and for the HTTP layer
type ErrorKind string

const (
	// Workflow errors
	ErrorKindNotAuthenticated ErrorKind = "NOT_AUTHENTICATED"
	ErrorKindNotAuthorized    ErrorKind = "NOT_AUTHORIZED"
	ErrorKindInvalidArgument  ErrorKind = "INVALID_ARGUMENT"
	ErrorKindNotAllowed       ErrorKind = "NOT_ALLOWED"
	ErrorKindNotFound         ErrorKind = "NOT_FOUND"
	ErrorKindRuntime          ErrorKind = "RUNTIME"

	// Infrastructure errors
	ErrorKindInternal ErrorKind = "INTERNAL"
	ErrorKindDatabase ErrorKind = "DATABASE"
)

// AppError is the error type carried across all layers of the service
type AppError struct {
	Kind       ErrorKind              `json:"kind"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

// Constructor functions for the error kinds used by the workflow

// NewNotAuthenticatedError signals that no caller identity is established
func NewNotAuthenticatedError(message string) *AppError {
	if message == "" {
		message = "not authenticated"
	}
	return &AppError{
		Kind:       ErrorKindNotAuthenticated,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		StackTrace: captureStackTrace(),
	}
}

// NewNotAuthorizedError signals that the caller lacks the moderator role
func NewNotAuthorizedError(message string) *AppError {
	if message == "" {
		message = "not authorized"
	}
	return &AppError{
		Kind:       ErrorKindNotAuthorized,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
		StackTrace: captureStackTrace(),
	}
}

// NewInvalidArgumentError signals a missing or malformed input value
func NewInvalidArgumentError(message string) *AppError {
	return &AppError{
		Kind:       ErrorKindInvalidArgument,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		StackTrace: captureStackTrace(),
	}
}

// NewNotAllowedError signals a workflow precondition violation
func NewNotAllowedError(message string) *AppError {
	return &AppError{
		Kind:       ErrorKindNotAllowed,
		Message:    message,
		HTTPStatus: http.StatusConflict,
		StackTrace: captureStackTrace(),
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Kind:       ErrorKindNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		StackTrace: captureStackTrace(),
	}
}

// NewRuntimeError signals an unexpected persistence inconsistency, such as
// an update that affected the wrong number of documents
func NewRuntimeError(message string) *AppError {
	return &AppError{
		Kind:       ErrorKindRuntime,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Kind:       ErrorKindInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// NewDatabaseError creates a database error
func NewDatabaseError(operation string, err error) *AppError {
	return &AppError{
		Kind:       ErrorKindDatabase,
		Message:    fmt.Sprintf("database operation '%s' failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
		StackTrace: captureStackTrace(),
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind checks if an error is of a specific kind
func IsKind(err error, kind ErrorKind) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Kind == kind
}

// IsNotAuthenticated checks for a missing caller identity
func IsNotAuthenticated(err error) bool {
	return IsKind(err, ErrorKindNotAuthenticated)
}

// IsNotAuthorized checks for a failed moderator check
func IsNotAuthorized(err error) bool {
	return IsKind(err, ErrorKindNotAuthorized)
}

// IsInvalidArgument checks for a missing or malformed input
func IsInvalidArgument(err error) bool {
	return IsKind(err, ErrorKindInvalidArgument)
}

// IsNotAllowed checks for a workflow precondition violation
func IsNotAllowed(err error) bool {
	return IsKind(err, ErrorKindNotAllowed)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsKind(err, ErrorKindNotFound)
}

// IsRuntime checks for a persistence inconsistency error
func IsRuntime(err error) bool {
	return IsKind(err, ErrorKindRuntime)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
