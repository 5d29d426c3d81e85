package model

import (
	"time"

	"github.com/google/uuid"
)

// Note is one row of the note table. Content holds the serialized
// payload for the note's type; see internal/content for the shapes.
type Note struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Type      string    `json:"type" db:"type"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ListNotesQuery carries the /notes filters. Tag and Q are mutually
// exclusive in the UI; when both are present Tag wins.
type ListNotesQuery struct {
	Tag string `form:"tag"`
	Q   string `form:"q"`
}

// NoteForm is the create/edit form body. TagIDs is the full replacement
// tag set, not a delta.
type NoteForm struct {
	Title   string   `form:"title"`
	Content string   `form:"content"`
	Type    string   `form:"type"`
	TagIDs  []string `form:"tagIds"`
}
