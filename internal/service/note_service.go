package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"devnotes/internal/domain"
	"devnotes/internal/repository"
)

// NoteService exposes CRUD over notes, always scoped to the calling user.
type NoteService interface {
	List(ctx context.Context, userID int64) ([]domain.Note, error)
	Get(ctx context.Context, userID, noteID int64) (*domain.Note, error)
	Create(ctx context.Context, userID int64, input domain.NoteInput) (*domain.Note, error)
	Update(ctx context.Context, userID, noteID int64, input domain.NoteInput) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID int64) error
}

type noteService struct {
	notes repository.NoteRepository
}

func NewNoteService(notes repository.NoteRepository) NoteService {
	return &noteService{notes: notes}
}

func (s *noteService) List(ctx context.Context, userID int64) ([]domain.Note, error) {
	return s.notes.ListByUser(ctx, userID)
}

func (s *noteService) Get(ctx context.Context, userID, noteID int64) (*domain.Note, error) {
	return s.notes.Get(ctx, userID, noteID)
}

func (s *noteService) Create(ctx context.Context, userID int64, input domain.NoteInput) (*domain.Note, error) {
	note, err := buildNote(input)
	if err != nil {
		return nil, err
	}
	note.UserID = userID

	if _, err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *noteService) Update(ctx context.Context, userID, noteID int64, input domain.NoteInput) (*domain.Note, error) {
	note, err := buildNote(input)
	if err != nil {
		return nil, err
	}
	note.ID = noteID
	note.UserID = userID

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	// re-read so created_at reflects the stored row
	return s.notes.Get(ctx, userID, noteID)
}

func (s *noteService) Delete(ctx context.Context, userID, noteID int64) error {
	return s.notes.Delete(ctx, userID, noteID)
}

func buildNote(input domain.NoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)

	if title == "" {
		return nil, domain.NewValidationError("title", "Note title is required")
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return nil, domain.NewValidationError("title", "Title cannot be more than %d characters", domain.MaxTitleLength)
	}
	if content == "" {
		return nil, domain.NewValidationError("content", "Note content is required")
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return nil, domain.NewValidationError("content", "Content cannot be more than %d characters", domain.MaxContentLength)
	}

	return &domain.Note{
		Title:       title,
		Content:     content,
		Tags:        normalizeTags(input.Tags),
		Category:    normalizeCategory(input.Category),
		IsImportant: input.IsImportant,
	}, nil
}

// normalizeCategory maps anything outside the known set to general.
func normalizeCategory(raw string) domain.Category {
	c := domain.Category(strings.ToLower(strings.TrimSpace(raw)))
	if c.Valid() {
		return c
	}
	return domain.CategoryGeneral
}

func normalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
