package repository

import (
	"context"

	"devnotes/internal/domain"
)

// NoteRepository persists notes. Every method is scoped to the owning user so
// that a note belonging to someone else looks exactly like a missing one.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (int64, error)
	Get(ctx context.Context, userID, id int64) (*domain.Note, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, userID, id int64) error
}
