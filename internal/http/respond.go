package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"finman/internal/core"
	applog "finman/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps the core error taxonomy to HTTP status codes.
// Unknown errors become an opaque 500 with the detail kept in the log.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrDuplicateStep):
		respondError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInsufficientFunds):
		respondError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidFrequency):
		respondError(w, r, http.StatusBadRequest, err.Error())
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldError, err.Error(),
			applog.FieldPath, r.URL.Path,
			applog.FieldMethod, r.Method)
		respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}
