package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/models"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
)

// EntryListResponse for GET /api/entries
type EntryListResponse struct {
	Entries []*models.Deceased `json:"entries"`
	Total   int                `json:"total"`
}

// EntryHandler handles memorial entry HTTP requests.
type EntryHandler struct {
	entryService services.EntryService
	logger       *zap.Logger
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(entryService services.EntryService, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the entry handler's routes on the given mux.
// Reads use optional auth so anonymous sessions get empty results; every
// mutation requires a session.
func (h *EntryHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/entries", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("POST /api/entries", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/entries/{id}", authMiddleware.OptionalAuth(h.Get))
	mux.HandleFunc("PUT /api/entries/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("DELETE /api/entries/{id}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/entries
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		// Anonymous sessions see no data rather than an error.
		if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: EntryListResponse{Entries: []*models.Deceased{}}}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	entries, err := h.entryService.GetByUser(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, "list_entries_failed", "Failed to list entries", h.logger)
		return
	}
	if entries == nil {
		entries = []*models.Deceased{}
	}

	response := EntryListResponse{Entries: entries, Total: len(entries)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/entries/{id}
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseEntryID(w, r, h.logger)
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

	entry, err := h.entryService.GetByID(r.Context(), id, userID)
	if err != nil {
		HandleServiceError(w, err, "get_entry_failed", "Failed to get entry", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: entry}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/entries
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())

	var input services.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	entry, err := h.entryService.Create(r.Context(), userID, &input)
	if err != nil {
		HandleServiceError(w, err, "create_entry_failed", "Failed to create entry", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: entry}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/entries/{id}
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseEntryID(w, r, h.logger)
	if !ok {
		return
	}
	userID := auth.GetUserIDFromContext(r.Context())

	var input services.EntryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	entry, err := h.entryService.Update(r.Context(), id, userID, &input)
	if err != nil {
		HandleServiceError(w, err, "update_entry_failed", "Failed to update entry", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: entry}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/entries/{id}
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ParseEntryID(w, r, h.logger)
	if !ok {
		return
	}
	userID := auth.GetUserIDFromContext(r.Context())

	if err := h.entryService.Delete(r.Context(), id, userID); err != nil {
		HandleServiceError(w, err, "delete_entry_failed", "Failed to delete entry", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Entry deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
