// Package apperror provides the domain error type shared by the ManageWiki
// registries and services. An AppError carries the HTTP status the API
// answers with and a message safe to return to farm tooling; storage
// causes ride along in Internal and are only logged.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a domain error with an HTTP status.
type AppError struct {
	// Code is the HTTP status code.
	Code int `json:"-"`

	// Type classifies the error for clients ("bad_request", "internal_error").
	Type string `json:"type"`

	// Message is safe to return to the caller.
	Message string `json:"message"`

	// Internal is the underlying cause. Logged, never returned.
	Internal error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap exposes Internal to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewBadRequest reports a malformed request, such as a missing wiki id (400).
func NewBadRequest(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Type: "bad_request", Message: message}
}

// NewNotFound reports a missing resource (404).
func NewNotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Type: "not_found", Message: message}
}

// NewValidation reports input that parsed but is not acceptable (422).
func NewValidation(message string) *AppError {
	return &AppError{Code: http.StatusUnprocessableEntity, Type: "validation_error", Message: message}
}

// NewInternal wraps a storage or infrastructure failure (500). The caller
// only sees a generic message.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:     http.StatusInternalServerError,
		Type:     "internal_error",
		Message:  "An unexpected error occurred. Please try again.",
		Internal: err,
	}
}

// Ensure returns err unchanged when it already is (or wraps) an AppError,
// and wraps it with NewInternal otherwise. Nil stays nil.
func Ensure(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return NewInternal(err)
}
