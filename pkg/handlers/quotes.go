package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
)

// QuoteRequest for POST/DELETE /api/quotes/saved
type QuoteRequest struct {
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// QuoteMutationResponse reports the outcome of a save or remove. Failures
// surface as message text rather than transport errors.
type QuoteMutationResponse struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message"`
}

// QuoteCheckResponse for GET /api/quotes/saved/check
type QuoteCheckResponse struct {
	Saved bool `json:"saved"`
}

// QuoteHandler handles saved quote HTTP requests.
type QuoteHandler struct {
	quoteService services.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(quoteService services.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// RegisterRoutes registers the quote handler's routes on the given mux.
func (h *QuoteHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/quotes/saved", authMiddleware.OptionalAuth(h.List))
	mux.HandleFunc("POST /api/quotes/saved", authMiddleware.RequireAuth(h.Save))
	mux.HandleFunc("DELETE /api/quotes/saved", authMiddleware.RequireAuth(h.Remove))
	mux.HandleFunc("GET /api/quotes/saved/check", authMiddleware.OptionalAuth(h.Check))
}

// List handles GET /api/quotes/saved
func (h *QuoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		empty := &services.SavedQuotes{Lookup: map[string]bool{}}
		if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: empty}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	saved, err := h.quoteService.GetSaved(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, "list_saved_quotes_failed", "Failed to list saved quotes", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Save handles POST /api/quotes/saved
func (h *QuoteHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, true)
}

// Remove handles DELETE /api/quotes/saved
func (h *QuoteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, false)
}

// mutate implements save and remove. Both report failure as message text
// with saved=false so quote cards degrade without surfacing raw errors.
func (h *QuoteHandler) mutate(w http.ResponseWriter, r *http.Request, save bool) {
	userID := auth.GetUserIDFromContext(r.Context())

	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := WriteJSON(w, http.StatusBadRequest, QuoteMutationResponse{Saved: false, Message: "Invalid request body"}); werr != nil {
			h.logger.Error("Failed to write response", zap.Error(werr))
		}
		return
	}

	var err error
	var response QuoteMutationResponse
	if save {
		err = h.quoteService.Save(r.Context(), userID, req.Quote, req.Author)
		response = QuoteMutationResponse{Saved: true, Message: "Quote saved"}
	} else {
		err = h.quoteService.Remove(r.Context(), userID, req.Quote, req.Author)
		response = QuoteMutationResponse{Saved: false, Message: "Quote removed"}
	}

	if err != nil {
		h.logger.Error("Quote mutation failed",
			zap.Bool("save", save),
			zap.Error(err))
		response = QuoteMutationResponse{Saved: false, Message: "Failed to update saved quotes"}
	}

	if werr := WriteJSON(w, http.StatusOK, response); werr != nil {
		h.logger.Error("Failed to write response", zap.Error(werr))
	}
}

// Check handles GET /api/quotes/saved/check
// Anonymous sessions always read false; this endpoint never errors for the
// client.
func (h *QuoteHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())
	quote := r.URL.Query().Get("quote")
	author := r.URL.Query().Get("author")

	saved := false
	if userID != "" && quote != "" {
		var err error
		saved, err = h.quoteService.IsSaved(r.Context(), userID, quote, author)
		if err != nil {
			h.logger.Error("Saved quote check failed", zap.Error(err))
			saved = false
		}
	}

	if err := WriteJSON(w, http.StatusOK, QuoteCheckResponse{Saved: saved}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
