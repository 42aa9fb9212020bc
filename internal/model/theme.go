package model

import "github.com/google/uuid"

// Theme represents a topic inside a subject. Quizzes and summaries hang off
// a theme.
type Theme struct {
	ID          int     `json:"id"`
	SubjectID   int     `json:"subject_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateThemeRequest is the payload for adding a theme to a subject.
type CreateThemeRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// Summary is a generated study summary attached to a theme.
type Summary struct {
	ID      uuid.UUID `json:"id"`
	ThemeID int       `json:"theme_id"`
	Name    string    `json:"name"`
	Content string    `json:"content"`
}
