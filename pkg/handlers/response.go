// Package handlers contains the HTTP layer for finalspaces-engine.
// Handlers decode and validate requests, delegate to services, and map
// sentinel errors onto statuses. No raw error text reaches a client.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
)

// ApiResponse is the uniform success envelope.
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// ValidationErrorResponse writes a 400 carrying field-level messages.
func ValidationErrorResponse(w http.ResponseWriter, fields map[string]string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	return json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   "validation_error",
		"message": "Validation failed",
		"fields":  fields,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// HandleServiceError maps service-layer errors onto HTTP responses.
// Sentinel errors get their canonical status; anything else is logged and
// reported with the fallback code so internals never leak.
func HandleServiceError(w http.ResponseWriter, err error, fallbackCode, fallbackMessage string, logger *zap.Logger) {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		if werr := ValidationErrorResponse(w, verr.Fields); werr != nil {
			logger.Error("Failed to write error response", zap.Error(werr))
		}
	case errors.Is(err, apperrors.ErrNotFound):
		if werr := ErrorResponse(w, http.StatusNotFound, "not_found", "Not found"); werr != nil {
			logger.Error("Failed to write error response", zap.Error(werr))
		}
	case errors.Is(err, apperrors.ErrUnauthorized):
		if werr := ErrorResponse(w, http.StatusUnauthorized, "not_authorized", "User not authorized"); werr != nil {
			logger.Error("Failed to write error response", zap.Error(werr))
		}
	case errors.Is(err, apperrors.ErrConflict):
		if werr := ErrorResponse(w, http.StatusConflict, "conflict", "Conflict"); werr != nil {
			logger.Error("Failed to write error response", zap.Error(werr))
		}
	default:
		logger.Error(fallbackMessage, zap.Error(err))
		if werr := ErrorResponse(w, http.StatusInternalServerError, fallbackCode, fallbackMessage); werr != nil {
			logger.Error("Failed to write error response", zap.Error(werr))
		}
	}
}
