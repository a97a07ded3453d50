package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"devnotes/internal/domain"
	"devnotes/internal/repository"
)

type RememberTokenRepository struct {
	db *sql.DB
}

func NewRememberTokenRepository(db *sql.DB) repository.RememberTokenRepository {
	return &RememberTokenRepository{db: db}
}

func (r *RememberTokenRepository) Create(ctx context.Context, token *domain.RememberToken) error {
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO remember_tokens (token_hash, user_id, expires_at, created_at)
VALUES (?, ?, ?, ?)`,
		token.TokenHash,
		token.UserID,
		token.ExpiresAt.UTC(),
		token.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert remember token: %w", err)
	}
	return nil
}

// Find returns the token row regardless of expiry; callers decide whether it is still usable.
func (r *RememberTokenRepository) Find(ctx context.Context, tokenHash string) (*domain.RememberToken, error) {
	var token domain.RememberToken
	err := r.db.QueryRowContext(ctx, `
SELECT token_hash, user_id, expires_at, created_at
FROM remember_tokens
WHERE token_hash = ?`,
		tokenHash,
	).Scan(&token.TokenHash, &token.UserID, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("find remember token: %w", err)
	}
	return &token, nil
}

// Delete is a no-op for unknown tokens.
func (r *RememberTokenRepository) Delete(ctx context.Context, tokenHash string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM remember_tokens WHERE token_hash = ?`, tokenHash); err != nil {
		return fmt.Errorf("delete remember token: %w", err)
	}
	return nil
}
