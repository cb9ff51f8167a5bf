package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
)

// SaveDraftRequest for PUT /api/obituaries/drafts
type SaveDraftRequest struct {
	DeceasedID uuid.UUID       `json:"deceased_id"`
	InputData  models.JSONBMap `json:"input_data"`
}

// GenerateObituaryRequest for POST /api/entries/{id}/obituaries
type GenerateObituaryRequest struct {
	InputData models.JSONBMap `json:"input_data"`
}

// ObituaryHandler handles obituary HTTP requests.
type ObituaryHandler struct {
	obituaryService services.ObituaryService
	logger          *zap.Logger
}

// NewObituaryHandler creates a new obituary handler.
func NewObituaryHandler(obituaryService services.ObituaryService, logger *zap.Logger) *ObituaryHandler {
	return &ObituaryHandler{
		obituaryService: obituaryService,
		logger:          logger,
	}
}

// RegisterRoutes registers the obituary handler's routes on the given mux.
func (h *ObituaryHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/obituaries", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("GET /api/obituaries/drafts", authMiddleware.OptionalAuth(h.ListDrafts))
	mux.HandleFunc("PUT /api/obituaries/drafts", authMiddleware.RequireAuth(h.SaveDraft))
	mux.HandleFunc("DELETE /api/obituaries/drafts/{id}", authMiddleware.RequireAuth(h.DeleteDraft))
	mux.HandleFunc("GET /api/obituaries/{id}", authMiddleware.OptionalAuth(h.Get))
	mux.HandleFunc("GET /api/entries/{id}/obituaries", authMiddleware.OptionalAuth(h.ListByEntry))
	mux.HandleFunc("POST /api/entries/{id}/obituaries", authMiddleware.RequireAuth(h.Generate))
}

// List handles GET /api/obituaries
func (h *ObituaryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeEmptyList(w, h.logger)
		return
	}

	obituaries, err := h.obituaryService.GetByUser(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, "list_obituaries_failed", "Failed to list obituaries", h.logger)
		return
	}
	if obituaries == nil {
		obituaries = []*models.Obituary{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: obituaries}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListDrafts handles GET /api/obituaries/drafts
func (h *ObituaryHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeEmptyList(w, h.logger)
		return
	}

	drafts, err := h.obituaryService.GetDrafts(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, "list_drafts_failed", "Failed to list drafts", h.logger)
		return
	}
	if drafts == nil {
		drafts = []*models.ObituaryDraft{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: drafts}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SaveDraft handles PUT /api/obituaries/drafts
func (h *ObituaryHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	var req SaveDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}
	if req.DeceasedID == uuid.Nil {
		if werr := ValidationErrorResponse(w, map[string]string{"deceased_id": "Entry ID is required"}); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	draft, err := h.obituaryService.SaveDraft(r.Context(), userID, req.DeceasedID, req.InputData)
	if err != nil {
		HandleServiceError(w, err, "save_draft_failed", "Failed to save draft", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: draft}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteDraft handles DELETE /api/obituaries/drafts/{id}
func (h *ObituaryHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObituaryID(w, r, h.logger)
	if !ok {
		return
	}
	userID := auth.GetUserIDFromContext(r.Context())

	if err := h.obituaryService.DeleteDraft(r.Context(), id, userID); err != nil {
		HandleServiceError(w, err, "delete_draft_failed", "Failed to delete draft", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Draft deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/obituaries/{id}
func (h *ObituaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseObituaryID(w, r, h.logger)
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

	obituary, err := h.obituaryService.GetByID(r.Context(), id, userID)
	if err != nil {
		HandleServiceError(w, err, "get_obituary_failed", "Failed to get obituary", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: obituary}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListByEntry handles GET /api/entries/{id}/obituaries
func (h *ObituaryHandler) ListByEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseEntryID(w, r, h.logger)
	if !ok {
		return
	}

	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		writeEmptyList(w, h.logger)
		return
	}

	obituaries, err := h.obituaryService.GetByDeceasedID(r.Context(), id, userID)
	if err != nil {
		HandleServiceError(w, err, "list_obituaries_failed", "Failed to list obituaries", h.logger)
		return
	}
	if obituaries == nil {
		obituaries = []*models.Obituary{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: obituaries}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Generate handles POST /api/entries/{id}/obituaries
func (h *ObituaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseEntryID(w, r, h.logger)
	if !ok {
		return
	}
	userID := auth.GetUserIDFromContext(r.Context())

	var req GenerateObituaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	obituary, err := h.obituaryService.Generate(r.Context(), userID, id, req.InputData)
	if err != nil {
		HandleServiceError(w, err, "generate_obituary_failed", "Failed to generate obituary", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: obituary}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeEmptyList answers anonymous list reads with an empty payload.
func writeEmptyList(w http.ResponseWriter, logger *zap.Logger) {
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: []struct{}{}}); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}
