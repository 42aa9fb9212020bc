package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizSession is one taker's run through a quiz. A (user, quiz) pair has
// at most one active session on the normal path; EndedAt marks a session
// finished, freeing its slot under the quiz's concurrency cap while the
// row stays behind as attempt history.
type QuizSession struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	QuizID    uuid.UUID  `json:"quiz_id"`
	CreatedAt time.Time  `json:"created_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ChosenVariant is one answer pick recorded inside a session. For discrete
// types QuestionVariantID points at the picked option's link row; for text
// types it points at the question's sole link row and AnswerText carries
// the submission. IsRight stays nil until reviewed for essay/shortanswer.
// Rows are append-only: re-answering a question adds new picks, it never
// rewrites the old ones.
type ChosenVariant struct {
	ID                uuid.UUID `json:"id"`
	SessionID         uuid.UUID `json:"session_id"`
	QuestionID        uuid.UUID `json:"question_id"`
	QuestionVariantID uuid.UUID `json:"question_variant_id"`
	AnswerText        *string   `json:"answer_text,omitempty"`
	IsRight           *bool     `json:"is_right,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// SessionHistory is the full recorded answer trail of one session: the
// per-question verdict entries plus every pick behind them.
type SessionHistory struct {
	Session QuizSession     `json:"session"`
	Submits []SessionSubmit `json:"submits"`
	Picks   []ChosenVariant `json:"picks"`
}

// SessionSubmit is the per-question aggregate verdict within a session.
type SessionSubmit struct {
	ID         uuid.UUID `json:"id"`
	SessionID  uuid.UUID `json:"session_id"`
	QuestionID uuid.UUID `json:"question_id"`
	IsRight    *bool     `json:"is_right,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// GradeResult is what a solve call returns to the taker: the aggregate
// verdict plus per-pick feedback. IsRight is nil for review-pending types.
type GradeResult struct {
	QuestionID uuid.UUID       `json:"question_id"`
	IsRight    *bool           `json:"is_right"`
	Picks      []GradedPick    `json:"picks,omitempty"`
	Pairs      []GradedPair    `json:"pairs,omitempty"`
	Variants   []VariantDetail `json:"variants,omitempty"`
}

// GradedPick is the per-option feedback for a discrete answer.
type GradedPick struct {
	QuestionVariantID uuid.UUID `json:"question_variant_id"`
	IsRight           bool      `json:"is_right"`
	Explanation       string    `json:"explanation,omitempty"`
}

// GradedPair is the per-pair feedback for a matching answer.
type GradedPair struct {
	LeftID      string `json:"leftId"`
	RightID     string `json:"rightId"`
	IsRight     bool   `json:"is_right"`
	Explanation string `json:"explanation,omitempty"`
}

// SessionResult is the finished-session summary.
type SessionResult struct {
	Session     QuizSession     `json:"session"`
	Total       int             `json:"total"`
	Correct     int             `json:"correct"`
	Wrong       int             `json:"wrong"`
	Unreviewed  int             `json:"unreviewed"`
	Submissions []SessionSubmit `json:"submissions"`
}
