package postgres

import (
	"context"
	"database/sql"

	"vocabbot/internal/domain"
)

// UserRepo implements repository.UserRepository.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// EnsureUserExists creates the user row if it does not exist yet.
func (r *UserRepo) EnsureUserExists(ctx context.Context, userID int64) error {
	query := `
		INSERT INTO users (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return domain.NewStorageError("users.ensure", err)
	}
	return nil
}

// TouchLastSeen refreshes the user's last activity timestamp.
func (r *UserRepo) TouchLastSeen(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_seen_at = NOW() WHERE user_id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return domain.NewStorageError("users.touch", err)
	}
	return nil
}
