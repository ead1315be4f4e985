// Package handler implements the HTTP surface. Handlers parse requests,
// call services, and translate results into the response envelope:
//
//	{"message": "...", "success": true|false, ...payload}
//
// Every response, success or failure, uses that shape so clients always
// know what to parse.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Barun-Mishra-09/jobspot/internal/apperror"
)

// writeSuccess sends the envelope with success=true and any extra payload
// fields merged in.
//
// Headers and status must be written before the body: once Encode writes,
// header changes are silently ignored.
func writeSuccess(w http.ResponseWriter, logger *slog.Logger, status int, message string, payload map[string]any) {
	body := map[string]any{
		"message": message,
		"success": true,
	}
	for k, v := range payload {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps a taxonomy error to its HTTP status and sends the failure
// envelope. Anything outside the taxonomy is a 500 with a generic message —
// the raw error is logged server-side and never put on the wire.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrIncorrectCredential),
			errors.Is(err, apperror.ErrRoleMismatch),
			errors.Is(err, apperror.ErrInvalidIdentifier):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrDuplicateAccount):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUpload),
			errors.Is(err, apperror.ErrFederation),
			errors.Is(err, apperror.ErrInternal):
			status = http.StatusInternalServerError
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if encErr := json.NewEncoder(w).Encode(map[string]any{
			"message": appErr.Message,
			"success": false,
		}); encErr != nil {
			logger.Error("failed to encode error response", slog.String("error", encErr.Error()))
		}
		return
	}

	logger.Error("unhandled error", slog.String("error", err.Error()))

	internal := apperror.Internal()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if encErr := json.NewEncoder(w).Encode(map[string]any{
		"message": internal.Message,
		"success": false,
	}); encErr != nil {
		logger.Error("failed to encode error response", slog.String("error", encErr.Error()))
	}
}
