// Package apperrors defines the error taxonomy shared by services and HTTP
// handlers.  Every failure that leaves the service layer is an *AppError
// carrying a Kind, a caller-safe message and, optionally, the underlying
// cause.  Handlers translate the Kind into a status code; the cause is only
// ever logged.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError.
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNotFound   Kind = "NOT_FOUND"
	KindConflict   Kind = "CONFLICT"
	KindStorage    Kind = "STORAGE_ERROR"
	KindUnexpected Kind = "UNEXPECTED_ERROR"
)

// UnexpectedMessage is the body returned for faults nobody anticipated.
const UnexpectedMessage = "Unknown server error"

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error kind to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Internal reports whether the error hides a server-side fault whose cause
// must be logged rather than shown.
func (e *AppError) Internal() bool {
	return e.Kind == KindStorage || e.Kind == KindUnexpected
}

func Validation(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

func NotFound(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// Storage wraps a failed store operation.  message is what the caller sees,
// err is what gets logged.
func Storage(message string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: message, Err: err}
}

func Unexpected(err error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: UnexpectedMessage, Err: err}
}

// As extracts an *AppError from err's chain.  Anything that is not already
// an AppError becomes an Unexpected error wrapping it.
func As(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Unexpected(err)
}

// Is reports whether err carries an AppError of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}
