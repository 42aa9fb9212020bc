package model

import (
	"time"

	"github.com/google/uuid"
)

// File is a stored attachment's metadata row. Path is relative to the
// storage root and never exposed directly; clients go through the download
// endpoint.
type File struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	Path      string    `json:"-"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FileReference ties a file to the entity it illustrates. Exactly one of
// the target ids is set.
type FileReference struct {
	ID        uuid.UUID  `json:"id"`
	FileID    uuid.UUID  `json:"file_id"`
	SubjectID *int       `json:"subject_id,omitempty"`
	ThemeID   *int       `json:"theme_id,omitempty"`
	QuizID    *uuid.UUID `json:"quiz_id,omitempty"`
}
