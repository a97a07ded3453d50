package domain

import "time"

// Export describes a JSON snapshot of a user's notes kept in object storage.
type Export struct {
	Key       string
	Size      int64
	NoteCount int
	CreatedAt time.Time
}
