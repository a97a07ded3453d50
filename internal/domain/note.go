package domain

import "time"

type Category string

const (
	CategoryJavaScript Category = "javascript"
	CategoryNodeJS     Category = "nodejs"
	CategoryMongoDB    Category = "mongodb"
	CategoryGeneral    Category = "general"
	CategoryBugFix     Category = "bug-fix"
	CategoryLearning   Category = "learning"
)

const (
	MaxTitleLength   = 100
	MaxContentLength = 2000
)

var categories = map[Category]struct{}{
	CategoryJavaScript: {},
	CategoryNodeJS:     {},
	CategoryMongoDB:    {},
	CategoryGeneral:    {},
	CategoryBugFix:     {},
	CategoryLearning:   {},
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Note is a short text note owned by exactly one user.
type Note struct {
	ID          int64
	UserID      int64
	Title       string
	Content     string
	Tags        []string
	Category    Category
	IsImportant bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoteInput carries the caller supplied fields for create and update.
type NoteInput struct {
	Title       string
	Content     string
	Category    string
	Tags        []string
	IsImportant bool
}
