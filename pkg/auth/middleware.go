package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/audit"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates authentication logic to AuthService.
type Middleware struct {
	authService AuthService
	auditor     *audit.SecurityAuditor
	logger      *zap.Logger
}

// NewMiddleware creates a new auth middleware with the given AuthService.
// The auditor may be nil; rejected requests are then not audit-logged.
func NewMiddleware(authService AuthService, auditor *audit.SecurityAuditor, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		auditor:     auditor,
		logger:      logger,
	}
}

// RequireAuth validates the JWT and rejects unauthenticated requests.
// Sets claims and token in context for downstream handlers.
// Use this for mutation endpoints, which must fail with a "not authorized"
// error when no session is active.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.authService.ValidateRequest(r)
		if err != nil {
			if errors.Is(err, ErrMissingAuthorization) {
				m.auditor.LogAuthFailure(r.Method, r.URL.Path, r.RemoteAddr, err.Error())
			} else {
				m.auditor.LogSessionRejected(r.Method, r.URL.Path, r.RemoteAddr, err.Error())
			}
			m.unauthorized(w, "User not authorized")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAuth validates the JWT when one is present but never rejects.
// Read endpoints use this: their contract is that "no session" renders as
// "no data", not as an error.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.authService.ValidateRequest(r)
		if err != nil {
			next(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "not_authorized",
		"message": message,
	})
}
