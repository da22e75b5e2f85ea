package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/domain"
)

// Chain tries each provider in order and returns the first session found.
// A provider error does not stop the chain; it is returned only when no
// later provider resolves a session.
type Chain []SessionProvider

// GetSession implements SessionProvider
func (c Chain) GetSession(ctx context.Context, headers http.Header) (*domain.Session, error) {
	var firstErr error
	for i, provider := range c {
		session, err := provider.GetSession(ctx, headers)
		if err != nil {
			log.Warn().Err(err).Int("provider", i).Msg("Session provider failed")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if session != nil {
			return session, nil
		}
	}
	return nil, firstErr
}
