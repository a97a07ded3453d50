package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"devnotes/internal/domain"
	"devnotes/internal/repository"
	"devnotes/internal/storage"
)

const (
	exportURLTTL     = 15 * time.Minute
	exportTimeFormat = "20060102T150405Z"
)

// ExportService snapshots a user's notes into object storage.
type ExportService interface {
	Export(ctx context.Context, userID int64) (*domain.Export, error)
	List(ctx context.Context, userID int64) ([]domain.Export, error)
	DownloadURL(ctx context.Context, userID int64, key string) (string, error)
	Delete(ctx context.Context, userID int64, key string) error
}

type ExportConfig struct {
	Bucket    string
	KeyPrefix string
}

type exportService struct {
	notes   repository.NoteRepository
	users   repository.UserRepository
	storage storage.Service
	cfg     ExportConfig
	now     func() time.Time
}

func NewExportService(notes repository.NoteRepository, users repository.UserRepository, store storage.Service, cfg ExportConfig) ExportService {
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &exportService{
		notes:   notes,
		users:   users,
		storage: store,
		cfg:     cfg,
		now:     time.Now,
	}
}

type exportSnapshot struct {
	Username   string         `json:"username"`
	ExportedAt time.Time      `json:"exportedAt"`
	Notes      []exportedNote `json:"notes"`
}

type exportedNote struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
	IsImportant bool      `json:"isImportant"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *exportService) Export(ctx context.Context, userID int64) (*domain.Export, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	snapshot := exportSnapshot{
		Username:   user.Username,
		ExportedAt: now,
		Notes:      make([]exportedNote, 0, len(notes)),
	}
	for _, n := range notes {
		snapshot.Notes = append(snapshot.Notes, exportedNote{
			Title:       n.Title,
			Content:     n.Content,
			Tags:        n.Tags,
			Category:    string(n.Category),
			IsImportant: n.IsImportant,
			CreatedAt:   n.CreatedAt,
			UpdatedAt:   n.UpdatedAt,
		})
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key := path.Join(s.userPrefix(userID), fmt.Sprintf("%s-%s.json", now.Format(exportTimeFormat), uuid.NewString()))
	if _, err := s.storage.PutObject(ctx, bytes.NewReader(body), storage.PutOptions{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: "application/json",
	}); err != nil {
		return nil, err
	}

	return &domain.Export{
		Key:       key,
		Size:      int64(len(body)),
		NoteCount: len(notes),
		CreatedAt: now,
	}, nil
}

func (s *exportService) List(ctx context.Context, userID int64) ([]domain.Export, error) {
	objects, err := s.storage.ListObjects(ctx, s.cfg.Bucket, s.userPrefix(userID)+"/")
	if err != nil {
		return nil, err
	}

	exports := make([]domain.Export, 0, len(objects))
	for _, obj := range objects {
		export := domain.Export{Key: obj.Key, Size: obj.Size}
		if obj.LastModified != nil {
			export.CreatedAt = obj.LastModified.UTC()
		}
		exports = append(exports, export)
	}
	// keys start with the export timestamp
	sort.Slice(exports, func(i, j int) bool {
		return exports[i].Key > exports[j].Key
	})
	return exports, nil
}

func (s *exportService) DownloadURL(ctx context.Context, userID int64, key string) (string, error) {
	if err := s.ensureExists(ctx, userID, key); err != nil {
		return "", err
	}
	return s.storage.GetObjectURL(ctx, s.cfg.Bucket, key, exportURLTTL)
}

func (s *exportService) Delete(ctx context.Context, userID int64, key string) error {
	if err := s.ensureExists(ctx, userID, key); err != nil {
		return err
	}
	return s.storage.DeleteObject(ctx, s.cfg.Bucket, key)
}

// ensureExists treats keys outside the user's prefix like missing objects.
func (s *exportService) ensureExists(ctx context.Context, userID int64, key string) error {
	if !s.owns(userID, key) {
		return domain.ErrExportNotFound
	}
	if _, err := s.storage.StatObject(ctx, s.cfg.Bucket, key); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return domain.ErrExportNotFound
		}
		return err
	}
	return nil
}

func (s *exportService) userPrefix(userID int64) string {
	return path.Join(s.cfg.KeyPrefix, fmt.Sprintf("user-%d", userID))
}

func (s *exportService) owns(userID int64, key string) bool {
	clean := path.Clean("/" + key)[1:]
	return clean == key && strings.HasPrefix(key, s.userPrefix(userID)+"/")
}
