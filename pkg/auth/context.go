package auth

import (
	"context"
	"fmt"

	"github.com/finalspaces/finalspaces-engine/pkg/models"
)

// GetUserIDFromContext extracts the user ID from JWT claims in the context.
// Returns empty string if not authenticated - callers on the read path treat
// that as "no session renders as no data" rather than as an error.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// RequireUserIDFromContext extracts the user ID from context and returns an
// error if not found. Use this on mutation paths where a session is required.
func RequireUserIDFromContext(ctx context.Context) (string, error) {
	userID := GetUserIDFromContext(ctx)
	if userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// GetUserFromContext returns the session user built from claims, or nil when
// no session is active.
func GetUserFromContext(ctx context.Context) *models.User {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil || claims.Subject == "" {
		return nil
	}
	return claims.User()
}
