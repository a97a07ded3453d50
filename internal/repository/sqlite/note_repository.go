package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"devnotes/internal/domain"
	"devnotes/internal/repository"
)

const noteColumns = `id, user_id, title, content, tags, category, is_important, created_at, updated_at`

type NoteRepository struct {
	db *sql.DB
}

func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &NoteRepository{db: db}
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (int64, error) {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO notes (user_id, title, content, tags, category, is_important, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		note.UserID,
		note.Title,
		note.Content,
		tags,
		string(note.Category),
		note.IsImportant,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("note last insert id: %w", err)
	}
	note.ID = id
	return id, nil
}

func (r *NoteRepository) Get(ctx context.Context, userID, id int64) (*domain.Note, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+noteColumns+`
FROM notes
WHERE id = ? AND user_id = ?`,
		id,
		userID,
	)
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func (r *NoteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Note, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+noteColumns+`
FROM notes
WHERE user_id = ?
ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	note.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE notes
SET title = ?, content = ?, tags = ?, category = ?, is_important = ?, updated_at = ?
WHERE id = ? AND user_id = ?`,
		note.Title,
		note.Content,
		tags,
		string(note.Category),
		note.IsImportant,
		note.UpdatedAt,
		note.ID,
		note.UserID,
	)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return requireAffected(res, domain.ErrNoteNotFound)
}

func (r *NoteRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return requireAffected(res, domain.ErrNoteNotFound)
}

func scanNote(row rowScanner) (*domain.Note, error) {
	var (
		note     domain.Note
		tags     string
		category string
	)
	if err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&tags,
		&category,
		&note.IsImportant,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}

	note.Category = domain.Category(category)
	note.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &note.Tags); err != nil {
			return nil, fmt.Errorf("decode tags for note %d: %w", note.ID, err)
		}
	}
	return &note, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
