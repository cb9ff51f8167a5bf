package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/geocode"
)

// GeocodeHandler handles location picker geocoding requests.
// These endpoints do not touch user data and need no session.
type GeocodeHandler struct {
	client geocode.Client
	logger *zap.Logger
}

// NewGeocodeHandler creates a new geocode handler.
func NewGeocodeHandler(client geocode.Client, logger *zap.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		client: client,
		logger: logger,
	}
}

// RegisterRoutes registers the geocode handler's routes on the given mux.
func (h *GeocodeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/geocode/search", h.Search)
	mux.HandleFunc("GET /api/geocode/reverse", h.Reverse)
}

// Search handles GET /api/geocode/search?q=..
func (h *GeocodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		if err := ValidationErrorResponse(w, map[string]string{"q": "Query is required"}); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	places, err := h.client.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Geocode search failed", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusBadGateway, "geocode_failed", "Location search failed"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}
	if places == nil {
		places = []geocode.Place{}
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: places}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Reverse handles GET /api/geocode/reverse?lat=..&lon=..
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")
	if lat == "" || lon == "" {
		fields := map[string]string{}
		if lat == "" {
			fields["lat"] = "Latitude is required"
		}
		if lon == "" {
			fields["lon"] = "Longitude is required"
		}
		if err := ValidationErrorResponse(w, fields); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	place, err := h.client.Reverse(r.Context(), lat, lon)
	if err != nil {
		h.logger.Error("Geocode reverse failed", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusBadGateway, "geocode_failed", "Location lookup failed"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: place}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
