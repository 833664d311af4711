package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps the domain error taxonomy onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeErrorMessage(w, http.StatusConflict, err.Error())
	case domain.IsInvalidState(err):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Unhandled error", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}
