package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tivecs/finance/finance-backend/internal/domain"
)

// AuthService mirrors identities from the auth provider into the local users table
type AuthService struct {
	userRepo domain.UserRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// SyncResult represents the result of a user sync
type SyncResult struct {
	User      *domain.User
	IsNewUser bool
}

// SyncUser creates or refreshes the local user row for the session's identity.
// Token-based providers do not write to the users table, so expenses could not
// reference their users without this.
func (s *AuthService) SyncUser(ctx context.Context, session *domain.Session) (*SyncResult, error) {
	user := session.User
	created, err := s.userRepo.Upsert(ctx, &user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to sync user")
		return nil, fmt.Errorf("sync user: %w", err)
	}

	if created {
		log.Info().Str("user_id", user.ID.String()).Msg("Created new user")
	} else {
		log.Info().Str("user_id", user.ID.String()).Msg("Existing user authenticated")
	}

	return &SyncResult{User: &user, IsNewUser: created}, nil
}
