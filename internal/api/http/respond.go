// Package http exposes the REST and websocket surface. Error responses
// follow RFC7807 problem details.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/logger"
)

// ProblemDetail represents RFC7807 problem details.
type ProblemDetail struct {
	Type   string            `json:"type,omitempty"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// Problem sends an RFC7807 problem details response.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	JSON(w, status, ProblemDetail{
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

// RespondError maps domain errors to HTTP responses. Unexpected errors are
// logged and surfaced as an opaque 500.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		conflict   *domain.ConflictError
		opFailed   *domain.OperationFailedError
	)
	switch {
	case errors.As(err, &notFound):
		Problem(w, http.StatusNotFound, "Not Found", notFound.Error())
	case errors.As(err, &validation):
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: validation.Error(),
			Fields: validation.Fields,
		})
	case errors.As(err, &conflict):
		Problem(w, http.StatusConflict, "Conflict", conflict.Error())
	case errors.As(err, &opFailed):
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "op", opFailed.Op, "error", opFailed.Unwrap())
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "error", err)
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return domain.NewValidation("body", "invalid JSON payload")
	}
	return nil
}
