package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"presign-backend/internal/domain"
	"presign-backend/internal/logger"
	"presign-backend/internal/security"
	"presign-backend/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondServiceError maps domain and service errors onto HTTP statuses.
// Unknown errors are logged and hidden behind a generic 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var transitionErr *domain.IllegalTransitionError
	var unscopedErr *domain.UnscopedAccessError

	switch {
	case errors.As(err, &validationErr):
		respondError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &transitionErr):
		respondError(w, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, domain.ErrStateConflict):
		respondError(w, http.StatusConflict, "participant state changed concurrently, reload and retry")
	case errors.Is(err, domain.ErrAnswersNotEditable):
		respondError(w, http.StatusConflict, "answers cannot be changed in the current state")
	case errors.Is(err, domain.ErrEventLocked):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUniquenessExhausted):
		logger.Error("identifier generation exhausted retries", "error", err)
		respondError(w, http.StatusInternalServerError, "could not allocate participant identifiers")
	case errors.Is(err, sql.ErrNoRows):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrExpiredToken),
		errors.Is(err, security.ErrWrongTokenType):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrQuestionnairesMissing),
		errors.Is(err, service.ErrLastMember):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrQuestionnaireNotAccessible):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &unscopedErr):
		// A missing scope declaration is a programming error, not client
		// input. Surface it loudly in logs.
		logger.Error("unscoped repository access", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	default:
		logger.Error("unhandled service error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
