// Package http exposes the account API over HTTP with chi.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/sahalaww/sc-auth/pkg/errors"
	"github.com/sahalaww/sc-auth/pkg/logger"
	"github.com/sahalaww/sc-auth/pkg/validator"
)

// envelope is the uniform response shape: status is "ok" or "fail", code
// mirrors the HTTP status, and data carries the payload or the error.
type envelope struct {
	Status string `json:"status"`
	Code   int    `json:"code"`
	Data   any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// writeOK writes a success envelope with the given payload.
func writeOK(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Status: "ok", Code: code, Data: data})
}

// writeFail writes a failure envelope. errPayload is either a message string
// or a field-to-message map for validation failures.
func writeFail(w http.ResponseWriter, code int, errPayload any) {
	writeJSON(w, code, envelope{
		Status: "fail",
		Code:   code,
		Data:   map[string]any{"error": errPayload},
	})
}

// writeError maps a service error onto the failure envelope. Validation
// errors surface their per-field messages; AppErrors surface their message;
// anything else is an opaque 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeFail(w, http.StatusUnprocessableEntity, valErr.Fields())
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.FromContext(ctx).ErrorContext(ctx, "request failed",
				slog.String("error", err.Error()),
			)
		}
		writeFail(w, appErr.Status, appErr.Message)
		return
	}

	logger.FromContext(ctx).ErrorContext(ctx, "unhandled error",
		slog.String("error", err.Error()),
	)
	writeFail(w, http.StatusInternalServerError, "internal server error")
}

// decodeJSON decodes the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.InvalidInput("invalid request body")
	}
	return nil
}
