// Package auth provides JWT-based authentication for finalspaces-engine.
// Tokens are issued by the external identity provider and validated here
// against its JWKS endpoint; the engine never mints tokens itself.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Claims represents the JWT claims structure from the identity provider.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, exp, etc.)
// and adds the user profile claims the app displays.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// User converts the claims into the app's user model.
func (c *Claims) User() *models.User {
	return &models.User{
		ID:    c.Subject,
		Name:  c.Name,
		Email: c.Email,
		Role:  c.Role,
	}
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
