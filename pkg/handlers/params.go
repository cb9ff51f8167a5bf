package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParseEntryID extracts and validates the entry ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on
// error (after writing an error response).
// Expects path parameter: id
func ParseEntryID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "id", "invalid_entry_id", "Invalid entry ID format", logger)
}

// ParseObituaryID extracts and validates the obituary ID from the request
// path. Expects path parameter: id
func ParseObituaryID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "id", "invalid_obituary_id", "Invalid obituary ID format", logger)
}

// ParseImageID extracts and validates the image ID from the request path.
// Expects path parameter: id
func ParseImageID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "id", "invalid_image_id", "Invalid image ID format", logger)
}

// parseUUID extracts a path parameter and parses it as a UUID, writing an
// error response on failure.
func parseUUID(w http.ResponseWriter, r *http.Request, param, errorCode, message string, logger *zap.Logger) (uuid.UUID, bool) {
	raw := r.PathValue(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("Invalid path parameter",
			zap.String("param", param),
			zap.String("value", raw))
		if werr := ErrorResponse(w, http.StatusBadRequest, errorCode, message); werr != nil {
			logger.Error("Failed to write error response", zap.Error(werr))
		}
		return uuid.Nil, false
	}
	return id, true
}
