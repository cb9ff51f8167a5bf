package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
)

// DashboardHandler handles dashboard statistics requests.
type DashboardHandler struct {
	dashboardService services.DashboardService
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(dashboardService services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// RegisterRoutes registers the dashboard handler's routes on the given mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/dashboard/stats", authMiddleware.OptionalAuth(h.Stats))
}

// Stats handles GET /api/dashboard/stats
// Anonymous sessions read all-zero statistics.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserIDFromContext(r.Context())
	if userID == "" {
		if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: &services.DashboardStats{}}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
		return
	}

	stats, err := h.dashboardService.GetStats(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err, "dashboard_stats_failed", "Failed to compute dashboard statistics", h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: stats}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
