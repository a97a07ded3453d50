package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"devnotes/internal/domain"
)

type noteRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsImportant bool     `json:"isImportant"`
}

func (r noteRequest) input() domain.NoteInput {
	return domain.NoteInput{
		Title:       r.Title,
		Content:     r.Content,
		Category:    r.Category,
		Tags:        r.Tags,
		IsImportant: r.IsImportant,
	}
}

func (h *Handler) listNotes(c *gin.Context) {
	user := currentUser(c)
	notes, err := h.notes.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]NoteResponse, len(notes))
	for i := range notes {
		resp[i] = noteToResponse(notes[i])
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notes": resp})
}

func (h *Handler) getNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	note, err := h.notes.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "note": noteToResponse(*note)})
}

func (h *Handler) createNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid note payload")
		return
	}

	note, err := h.notes.Create(c.Request.Context(), currentUser(c).ID, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "note": noteToResponse(*note)})
}

func (h *Handler) updateNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid note payload")
		return
	}

	note, err := h.notes.Update(c.Request.Context(), currentUser(c).ID, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "note": noteToResponse(*note)})
}

func (h *Handler) deleteNote(c *gin.Context) {
	id, ok := noteID(c)
	if !ok {
		return
	}

	if err := h.notes.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Note deleted successfully"})
}

// a malformed id cannot name an existing note
func noteID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusNotFound, "Note not found")
		return 0, false
	}
	return id, true
}
