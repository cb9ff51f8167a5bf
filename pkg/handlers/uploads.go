package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
)

// InitiateUploadRequest for POST /api/uploads
type InitiateUploadRequest struct {
	Filename string `json:"filename"`
}

// CompleteUploadRequest for POST /api/uploads/complete
type CompleteUploadRequest struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadHandler handles user upload HTTP requests.
type UploadHandler struct {
	uploadService services.UploadService
	logger        *zap.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploadService services.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		logger:        logger,
	}
}

// RegisterRoutes registers the upload handler's routes on the given mux.
// Delete goes through optional auth so the service's typed authorization
// check decides; the storage call must never run for anonymous sessions.
func (h *UploadHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/uploads", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("POST /api/uploads", authMiddleware.RequireAuth(h.Initiate))
	mux.HandleFunc("POST /api/uploads/complete", authMiddleware.RequireAuth(h.Complete))
	mux.HandleFunc("DELETE /api/uploads/{key...}", authMiddleware.OptionalAuth(h.Delete))
}

// List handles GET /api/uploads
func (h *UploadHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeEmptyList(w, h.logger)
		return
	}

	uploads, err := h.uploadService.GetByUser(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, "list_uploads_failed", "Failed to list uploads", h.logger)
		return
	}
	if uploads == nil {
		uploads = []*models.UserUpload{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: uploads}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Initiate handles POST /api/uploads
func (h *UploadHandler) Initiate(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	var req InitiateUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	ticket, err := h.uploadService.Initiate(r.Context(), userID, req.Filename)
	if err != nil {
		HandleServiceError(w, err, "initiate_upload_failed", "Failed to initiate upload", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: ticket}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Complete handles POST /api/uploads/complete
func (h *UploadHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	var req CompleteUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	upload, err := h.uploadService.Complete(r.Context(), userID, req.URL, req.Key)
	if err != nil {
		HandleServiceError(w, err, "complete_upload_failed", "Failed to record upload", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: upload}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/uploads/{key...}
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" {
		if werr := ValidationErrorResponse(w, map[string]string{"key": "Key is required"}); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	userID := auth.GetUserIDFromContext(r.Context())

	if err := h.uploadService.Delete(r.Context(), userID, key); err != nil {
		HandleServiceError(w, err, "delete_upload_failed", "Failed to delete upload", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Upload deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
