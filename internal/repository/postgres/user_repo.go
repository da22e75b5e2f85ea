package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tivecs/finance/finance-backend/internal/domain"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(context.WithoutCancel(ctx),
		`SELECT id, email, name, image, email_verified FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.Image, &user.EmailVerified)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Upsert inserts the user or refreshes its profile fields.
// created reports whether a new row was inserted.
func (r *UserRepository) Upsert(ctx context.Context, user *domain.User) (bool, error) {
	var created bool
	err := r.pool.QueryRow(context.WithoutCancel(ctx), `
		INSERT INTO users (id, email, name, image, email_verified)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
			name = EXCLUDED.name,
			image = EXCLUDED.image,
			email_verified = EXCLUDED.email_verified,
			updated_at = NOW()
		RETURNING (xmax = 0)`,
		user.ID, user.Email, user.Name, user.Image, user.EmailVerified,
	).Scan(&created)
	if err != nil {
		return false, err
	}
	return created, nil
}
