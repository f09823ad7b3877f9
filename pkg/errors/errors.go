package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure classes the service distinguishes.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidLogin   = errors.New("invalid login")
	ErrTooManyRequest = errors.New("too many requests")
	ErrInternal       = errors.New("internal error")
)

// AppError is a structured application error with an HTTP status mapping.
// Message is safe to return to callers; Err carries internal detail that is
// logged but never serialized.
type AppError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Message: fmt.Sprintf("%s %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Conflict creates a 409 error for a uniqueness violation.
func Conflict(resource, field, value string) *AppError {
	return &AppError{
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return &AppError{
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// InvalidLogin creates a 422 error for a failed credential check or an
// unresolvable role reference.
func InvalidLogin(message string) *AppError {
	return &AppError{
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Err:     ErrInvalidLogin,
	}
}

// Unauthorized creates a 401 error for a token the gate rejects.
func Unauthorized(message string) *AppError {
	return &AppError{
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error for an authenticated caller with the wrong role.
func Forbidden(message string) *AppError {
	return &AppError{
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// TooManyRequests creates a 429 error for throttled callers.
func TooManyRequests(message string) *AppError {
	return &AppError{
		Message: message,
		Status:  http.StatusTooManyRequests,
		Err:     ErrTooManyRequest,
	}
}

// Internal creates a 500 error. The wrapped error is kept for logging only.
func Internal(err error) *AppError {
	return &AppError{
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus returns the HTTP status code for the given error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidLogin):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrTooManyRequest):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
