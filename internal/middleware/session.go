package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/auth"
	"github.com/tivecs/finance/finance-backend/internal/domain"
	"github.com/tivecs/finance/finance-backend/internal/result"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// SessionKey is the context key for the resolved session
	SessionKey contextKey = "session"
)

// SessionAuth returns an Echo middleware that resolves the request's session
// through provider. Requests without a session get a 401 unauthorized failure.
func SessionAuth(provider auth.SessionProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			session, err := provider.GetSession(req.Context(), req.Header)
			if err != nil {
				log.Error().Err(err).Str("path", req.URL.Path).Msg("Session lookup failed")
				return internalError(c)
			}
			if session == nil {
				log.Debug().Str("path", req.URL.Path).Msg("Request has no session")
				return writeFailure(c, result.Unauthorized)
			}

			ctx := context.WithValue(req.Context(), SessionKey, session)
			c.SetRequest(req.WithContext(ctx))
			c.Set("user_id", session.User.ID.String())

			return next(c)
		}
	}
}

// GetSession extracts the session from the context
func GetSession(c echo.Context) *domain.Session {
	if session, ok := c.Request().Context().Value(SessionKey).(*domain.Session); ok {
		return session
	}
	return nil
}

// GetUserID extracts the session's user ID from the context
func GetUserID(c echo.Context) uuid.UUID {
	if session := GetSession(c); session != nil {
		return session.User.ID
	}
	return uuid.Nil
}
