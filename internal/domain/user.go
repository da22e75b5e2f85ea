package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the identity resolved by the auth provider
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Image         *string   `json:"image"`
	EmailVerified bool      `json:"emailVerified"`
}

// SessionInfo describes the session a request was authenticated with
type SessionInfo struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Session is the result of resolving a request's credentials
type Session struct {
	User    User        `json:"user"`
	Session SessionInfo `json:"session"`
}

// UserRepository defines the interface for user persistence.
// The users table is owned by the auth subsystem; this only mirrors
// identities from token-based providers so expenses can reference them.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Upsert(ctx context.Context, user *User) (created bool, err error)
}
