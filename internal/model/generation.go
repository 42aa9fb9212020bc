package model

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus tracks an async quiz-generation request through the
// queue.
type GenerationStatus string

const (
	GenerationStatusQueued    GenerationStatus = "queued"
	GenerationStatusRunning   GenerationStatus = "running"
	GenerationStatusSucceeded GenerationStatus = "succeeded"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GenerationRequest is the payload for requesting quiz generation from
// source material.
type GenerationRequest struct {
	ThemeID       int       `json:"theme_id" binding:"required"`
	QuestionCount int       `json:"question_count" binding:"required,min=1,max=50"`
	Prompt        string    `json:"prompt" binding:"omitempty,max=4000"`
	FileID        uuid.UUID `json:"file_id" binding:"omitempty"`
}

// GenerationJob is the queued unit of work plus its tracked state.
type GenerationJob struct {
	ID            uuid.UUID        `json:"id"`
	UserID        uuid.UUID        `json:"user_id"`
	ThemeID       int              `json:"theme_id"`
	QuestionCount int              `json:"question_count"`
	Prompt        string           `json:"prompt,omitempty"`
	FileID        *uuid.UUID       `json:"file_id,omitempty"`
	Status        GenerationStatus `json:"status"`
	Error         string           `json:"error,omitempty"`
	QuizID        *uuid.UUID       `json:"quiz_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// GeneratedQuiz is the shape a generation backend pushes onto the result
// queue: a quiz plus its full question set, ready to persist.
type GeneratedQuiz struct {
	JobID     uuid.UUID               `json:"job_id"`
	Name      string                  `json:"name"`
	Questions []CreateQuestionRequest `json:"questions"`
}
