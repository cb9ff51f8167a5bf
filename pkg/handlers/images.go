package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
)

// ImageHandler handles memorial image HTTP requests.
type ImageHandler struct {
	imageService services.ImageService
	logger       *zap.Logger
}

// NewImageHandler creates a new image handler.
func NewImageHandler(imageService services.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		logger:       logger,
	}
}

// RegisterRoutes registers the image handler's routes on the given mux.
func (h *ImageHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/entries/{id}/images", authMiddleware.OptionalAuth(h.ListByEntry))
	mux.HandleFunc("POST /api/entries/{id}/images", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/images/{id}", authMiddleware.OptionalAuth(h.Refresh))
}

// ListByEntry handles GET /api/entries/{id}/images
func (h *ImageHandler) ListByEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseEntryID(w, r, h.logger)
	if !ok {
		return
	}

	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeEmptyList(w, h.logger)
		return
	}

	images, err := h.imageService.GetByDeceasedID(r.Context(), id, userID)
	if err != nil {
		HandleServiceError(w, err, "list_images_failed", "Failed to list images", h.logger)
		return
	}
	if images == nil {
		images = []*models.GeneratedImage{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: images}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/entries/{id}/images
func (h *ImageHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseEntryID(w, r, h.logger)
	if !ok {
		return
	}
	userID := auth.GetUserIDFromContext(r.Context())

	var input services.ImageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	image, err := h.imageService.Create(r.Context(), userID, id, &input)
	if err != nil {
		HandleServiceError(w, err, "create_image_failed", "Failed to create memorial image", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: image}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Refresh handles GET /api/images/{id}
// Pending compositions are polled; settled ones come straight from storage.
func (h *ImageHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseImageID(w, r, h.logger)
	if !ok {
		return
	}

	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		if err := ErrorResponse(w, http.StatusNotFound, "not_found", "Not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	image, err := h.imageService.Refresh(r.Context(), id, userID)
	if err != nil {
		HandleServiceError(w, err, "refresh_image_failed", "Failed to refresh memorial image", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: image}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
