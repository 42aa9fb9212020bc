package model

import "github.com/google/uuid"

// Variant is a raw answer-option row. IsRight is nil for free-text types
// (shortanswer, essay) where correctness only exists after review.
type Variant struct {
	ID           uuid.UUID `json:"id"`
	Text         string    `json:"text"`
	ExplainRight string    `json:"explain_right"`
	ExplainWrong string    `json:"explain_wrong"`
	IsRight      *bool     `json:"is_right,omitempty"`
}

// QuestionVariant links a variant to a question. The link row's id is what
// chosen_variants and session_submits reference, so replacing a question's
// option set invalidates prior picks without touching history rows.
type QuestionVariant struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	VariantID  uuid.UUID `json:"variant_id"`
}

// VariantWithLink is a variant joined with its question link, the shape
// repositories return for grading and teacher views.
type VariantWithLink struct {
	Variant
	QuestionVariantID uuid.UUID `json:"question_variant_id"`
	QuestionID        uuid.UUID `json:"question_id"`
}
