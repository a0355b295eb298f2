// Package errors provides unified error handling for the funcbox demo
// services: structured error types with machine-readable codes and HTTP
// status mapping.
package errors

import (
	"fmt"
	"net/http"
)

// AppError is the application error type shared by all demo services.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// --- Common Error Constructors ---

// NotFound creates a new AppError for a resource that was not found.
// The message matches the catalog convention: "<Resource> with id <id> not found".
func NotFound(resource string, id int) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s with id %d not found", resource, id),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource, "id": id},
	}
}

// AlreadyExists creates a new AppError for a duplicate resource.
func AlreadyExists(message string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Validation creates a new AppError for validation failures.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingParam creates a new AppError for a missing required query parameter.
func MissingParam(param string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required query parameter: %s", param),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"param": param},
	}
}

// InvalidJSON creates a new AppError for an unparseable request body.
func InvalidJSON() *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: "Invalid JSON",
		HTTPStatus: http.StatusBadRequest,
	}
}

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Not authenticated"
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken creates a new AppError for an invalid session token.
func InvalidToken() *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "Invalid or expired session token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// DatabaseError creates a new AppError for a database error.
func DatabaseError(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabaseError, Message: "A database error occurred",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// ServiceUnavailable creates a new AppError for a failing dependency.
func ServiceUnavailable(message string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}
