package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsMapToStatusAndSentinel(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantStatus int
		sentinel   error
	}{
		{"not found", NotFound("user", "abc"), http.StatusNotFound, ErrNotFound},
		{"conflict", Conflict("user", "username", "alice"), http.StatusConflict, ErrConflict},
		{"invalid input", InvalidInput("bad body"), http.StatusBadRequest, ErrInvalidInput},
		{"invalid login", InvalidLogin("user not found"), http.StatusUnprocessableEntity, ErrInvalidLogin},
		{"unauthorized", Unauthorized("The token has revoked"), http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", Forbidden("insufficient role"), http.StatusForbidden, ErrForbidden},
		{"too many requests", TooManyRequests("slow down"), http.StatusTooManyRequests, ErrTooManyRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.wantStatus, HTTPStatus(tt.err))
		})
	}
}

func TestInternalHidesDetail(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Internal(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "internal server error", err.Message)
	assert.True(t, errors.Is(err, cause), "the cause stays reachable for logging")
}

func TestHTTPStatusOfWrappedSentinel(t *testing.T) {
	err := fmt.Errorf("lookup user: %w", ErrNotFound)
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestHTTPStatusUnknownErrorIs500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("mystery")))
}

func TestErrorStringIncludesCause(t *testing.T) {
	err := &AppError{Message: "lookup failed", Status: 500, Err: errors.New("timeout")}
	assert.Contains(t, err.Error(), "lookup failed")
	assert.Contains(t, err.Error(), "timeout")
}
