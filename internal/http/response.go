package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"devnotes/internal/domain"
)

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type NoteResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	IsImportant bool     `json:"isImportant"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

type ExportResponse struct {
	Key       string `json:"key"`
	Size      int64  `json:"size"`
	NoteCount int    `json:"noteCount,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{ID: user.ID, Username: user.Username}
}

func noteToResponse(note domain.Note) NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteResponse{
		ID:          note.ID,
		Title:       note.Title,
		Content:     note.Content,
		Tags:        tags,
		Category:    string(note.Category),
		IsImportant: note.IsImportant,
		CreatedAt:   formatTime(note.CreatedAt),
		UpdatedAt:   formatTime(note.UpdatedAt),
	}
}

func exportToResponse(export domain.Export) ExportResponse {
	resp := ExportResponse{
		Key:       export.Key,
		Size:      export.Size,
		NoteCount: export.NoteCount,
	}
	if !export.CreatedAt.IsZero() {
		resp.CreatedAt = formatTime(export.CreatedAt)
	}
	return resp
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respondError maps domain errors onto status codes. Unexpected errors are
// logged and answered with a generic message so store details never leak.
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		fail(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrUserAlreadyExists):
		fail(c, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, domain.ErrNoteNotFound):
		fail(c, http.StatusNotFound, "Note not found")
	case errors.Is(err, domain.ErrExportNotFound):
		fail(c, http.StatusNotFound, "Export not found")
	default:
		requestLogger(c).WithError(err).Error("request failed")
		fail(c, http.StatusInternalServerError, "Internal server error")
	}
}
