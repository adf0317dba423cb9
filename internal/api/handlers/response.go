package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aicaremanager/backend/internal/infrastructure/observability"
	apperrors "github.com/aicaremanager/backend/pkg/errors"
)

const missingServiceKeyMessage = "DATA_GO_KR_SERVICE_KEY is not set. Add it to backend/.env."

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.GetLogger().Error().Err(err).Msg("failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps the error taxonomy onto HTTP status codes
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusUnprocessableEntity, appErr.Message)
	case apperrors.ErrorTypeUnavailable:
		respondWithError(w, http.StatusServiceUnavailable, appErr.Message)
	case apperrors.ErrorTypeExternal, apperrors.ErrorTypeMalformed:
		respondWithError(w, http.StatusBadGateway, "upstream service error")
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
