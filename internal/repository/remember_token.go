package repository

import (
	"context"

	"devnotes/internal/domain"
)

// RememberTokenRepository stores long-lived login tokens keyed by digest.
type RememberTokenRepository interface {
	Create(ctx context.Context, token *domain.RememberToken) error
	Find(ctx context.Context, tokenHash string) (*domain.RememberToken, error)
	Delete(ctx context.Context, tokenHash string) error
}
