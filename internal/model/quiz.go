package model

import "github.com/google/uuid"

// Quiz represents a gradeable collection of questions tied to a theme.
// MaxSessions bounds how many attempts one user may open; 0 means unlimited.
type Quiz struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	MaxSessions int       `json:"max_sessions"`
	ThemeID     *int      `json:"theme_id,omitempty"`
}

// QuizWithCount adds the question count, as returned by the quiz detail and
// theme listing endpoints.
type QuizWithCount struct {
	Quiz
	QuestionCount int `json:"question_count"`
}

// CreateQuizRequest is the payload for a teacher creating a quiz together
// with its question set.
type CreateQuizRequest struct {
	Type        string                  `json:"type" binding:"required,min=1,max=64"`
	Name        string                  `json:"name" binding:"required,min=1,max=255"`
	Description *string                 `json:"description" binding:"omitempty,max=2000"`
	MaxSessions int                     `json:"max_sessions" binding:"min=0"`
	ThemeID     *int                    `json:"theme_id" binding:"omitempty"`
	Questions   []CreateQuestionRequest `json:"questions" binding:"omitempty,dive"`
}
