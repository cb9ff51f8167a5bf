package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/apperrors"
	"github.com/finalspaces/finalspaces-engine/pkg/services"
)

// ContactRequest for POST /api/contact
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// WaitlistRequest for POST /api/waitlist
type WaitlistRequest struct {
	Email string `json:"email"`
}

// MailHandler handles contact form and waitlist requests.
// Both endpoints are public.
type MailHandler struct {
	mailService services.MailService
	logger      *zap.Logger
}

// NewMailHandler creates a new mail handler.
func NewMailHandler(mailService services.MailService, logger *zap.Logger) *MailHandler {
	return &MailHandler{
		mailService: mailService,
		logger:      logger,
	}
}

// RegisterRoutes registers the mail handler's routes on the given mux.
func (h *MailHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/contact", h.Contact)
	mux.HandleFunc("POST /api/waitlist", h.Waitlist)
}

// Contact handles POST /api/contact
func (h *MailHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := h.mailService.SendContact(r.Context(), req.Name, req.Email, req.Message); err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			if werr := ValidationErrorResponse(w, verr.Fields); werr != nil {
				h.logger.Error("Failed to write error response", zap.Error(werr))
			}
			return
		}
		h.logger.Error("Contact delivery failed", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusBadGateway, "send_failed", "Failed to send email"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Email sent successfully"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Waitlist handles POST /api/waitlist
func (h *MailHandler) Waitlist(w http.ResponseWriter, r *http.Request) {
	var req WaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := h.mailService.JoinWaitlist(r.Context(), req.Email); err != nil {
		var verr *apperrors.ValidationError
		if errors.As(err, &verr) {
			if werr := ValidationErrorResponse(w, verr.Fields); werr != nil {
				h.logger.Error("Failed to write error response", zap.Error(werr))
			}
			return
		}
		h.logger.Error("Waitlist signup failed", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusBadGateway, "subscribe_failed", "Failed to add email to waitlist"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Email added to waitlist successfully"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
