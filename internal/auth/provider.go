// Package auth resolves the session behind a request's credentials.
// Session issuance, login flows and user management belong to the external
// auth provider; this package only looks sessions up.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/tivecs/finance/finance-backend/internal/domain"
)

// SessionProvider resolves the session for a request.
// A nil session with a nil error means the request carries no valid session.
type SessionProvider interface {
	GetSession(ctx context.Context, headers http.Header) (*domain.Session, error)
}

// SessionProviderFunc adapts a function to SessionProvider
type SessionProviderFunc func(ctx context.Context, headers http.Header) (*domain.Session, error)

// GetSession implements SessionProvider
func (f SessionProviderFunc) GetSession(ctx context.Context, headers http.Header) (*domain.Session, error) {
	return f(ctx, headers)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(headers http.Header) (string, bool) {
	authHeader := headers.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
