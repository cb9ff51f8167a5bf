package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/finalspaces/finalspaces-engine/pkg/auth"
	"github.com/finalspaces/finalspaces-engine/pkg/config"
)

// CompleteLoginRequest represents the request body for login completion.
// The frontend posts the identity provider's token together with the
// anti-forgery state issued at the start of the redirect.
type CompleteLoginRequest struct {
	Token string `json:"token"`
	State string `json:"state"`
}

// CompleteLoginResponse represents the response for login completion.
type CompleteLoginResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url"`
}

// LogoutResponse represents the response for logout.
type LogoutResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url"`
}

// AuthHandler handles the login redirect flow.
type AuthHandler struct {
	authService auth.AuthService
	config      *config.Config
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService auth.AuthService, cfg *config.Config, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		config:      cfg,
		logger:      logger,
	}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/complete", h.CompleteLogin)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
}

// Login handles GET /auth/login
// Stashes anti-forgery state and the return URL in the short-lived login
// session, then redirects to the identity provider.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		h.logger.Error("Failed to generate login state", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusInternalServerError, "login_failed", "Failed to start login"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	session, err := auth.GetSession(r)
	if err != nil {
		h.logger.Warn("Stale login session, starting fresh", zap.Error(err))
	}
	session.Values[auth.SessionKeyState] = state
	session.Values[auth.SessionKeyOriginalURL] = sanitizeRedirect(r.URL.Query().Get("redirect"))
	if err := auth.SaveSession(r, w, session); err != nil {
		h.logger.Error("Failed to save login session", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusInternalServerError, "login_failed", "Failed to start login"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	authorize, _ := url.Parse(strings.TrimSuffix(h.config.Auth.Issuer, "/") + "/authorize")
	q := authorize.Query()
	q.Set("state", state)
	q.Set("redirect_uri", h.config.BaseURL+"/login/callback")
	authorize.RawQuery = q.Encode()

	http.Redirect(w, r, authorize.String(), http.StatusFound)
}

// CompleteLogin handles POST /api/auth/complete
// Called by the frontend after the identity provider redirects back. It
// checks the anti-forgery state, validates the token, and sets it as an
// httpOnly cookie.
func (h *AuthHandler) CompleteLogin(w http.ResponseWriter, r *http.Request) {
	var req CompleteLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if req.Token == "" || req.State == "" {
		if werr := ErrorResponse(w, http.StatusBadRequest, "missing_parameters", "Missing token or state"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	session, _ := auth.GetSession(r)
	storedState, _ := session.Values[auth.SessionKeyState].(string)
	if storedState == "" || storedState != req.State {
		h.logger.Warn("Login state mismatch")
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_state", "Login state mismatch"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	claims, err := h.authService.ValidateToken(req.Token)
	if err != nil {
		h.logger.Warn("Login token rejected", zap.Error(err))
		if werr := ErrorResponse(w, http.StatusUnauthorized, "invalid_token", "Authentication failed"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    req.Token,
		HttpOnly: true,
		Secure:   h.config.Env != "local",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400,
		Path:     "/",
	})

	originalURL, _ := session.Values[auth.SessionKeyOriginalURL].(string)
	auth.ClearSessionValues(session)
	if err := auth.SaveSession(r, w, session); err != nil {
		h.logger.Error("Failed to save session", zap.Error(err))
	}

	if originalURL == "" {
		originalURL = "/"
	}

	h.logger.Info("Login completed",
		zap.String("sub", claims.Subject),
		zap.String("original_url", originalURL))

	if err := WriteJSON(w, http.StatusOK, CompleteLoginResponse{
		Success:     true,
		RedirectURL: originalURL,
	}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Logout handles POST /api/auth/logout
// Clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   h.config.Env != "local",
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Path:     "/",
	})

	h.logger.Info("User logged out")

	if err := WriteJSON(w, http.StatusOK, LogoutResponse{
		Success:     true,
		RedirectURL: "/",
	}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// randomState returns a hex-encoded anti-forgery token.
func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// sanitizeRedirect keeps return URLs on-site. Anything other than an
// absolute path falls back to the root.
func sanitizeRedirect(redirect string) string {
	if !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") {
		return "/"
	}
	return redirect
}
