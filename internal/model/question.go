package model

import "github.com/google/uuid"

// QuestionType enumerates the supported question kinds.
type QuestionType string

const (
	QuestionTypeMultichoice QuestionType = "multichoice"
	QuestionTypeTrueFalse   QuestionType = "truefalse"
	QuestionTypeShortAnswer QuestionType = "shortanswer"
	QuestionTypeMatching    QuestionType = "matching"
	QuestionTypeEssay       QuestionType = "essay"
	QuestionTypeNumerical   QuestionType = "numerical"
	QuestionTypeDescription QuestionType = "description"
)

// Question represents a single question. The answer key never lives here;
// it is held by the question_variants rows so every type shares one linking
// table.
type Question struct {
	ID          uuid.UUID    `json:"id"`
	Type        QuestionType `json:"type"`
	MultiAnswer *bool        `json:"multi_answer,omitempty"`
	Text        string       `json:"text"`
}

// MatchingItem is one entry of a matching question's left or right column.
type MatchingItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchingPair is one correct (left, right) association with its
// explanations.
type MatchingPair struct {
	LeftID       string  `json:"leftId"`
	RightID      string  `json:"rightId"`
	ExplainRight *string `json:"explainRight,omitempty"`
	ExplainWrong *string `json:"explainWrong,omitempty"`
}

// MatchingConfig is the structured answer key for a matching question.
// Every id referenced by CorrectPairs must exist in the corresponding item
// list. This is the single canonical shape; there is no legacy dual-key
// read path.
type MatchingConfig struct {
	LeftItems    []MatchingItem `json:"leftItems"`
	RightItems   []MatchingItem `json:"rightItems"`
	CorrectPairs []MatchingPair `json:"correctPairs"`
}

// CreateQuestionRequest is one question (with its answer key) inside a quiz
// creation payload.
type CreateQuestionRequest struct {
	Type           QuestionType          `json:"type" binding:"required,oneof=multichoice truefalse shortanswer matching essay numerical description"`
	MultiAnswer    *bool                 `json:"multi_answer" binding:"omitempty"`
	Text           string                `json:"text" binding:"required,min=1,max=4000"`
	Variants       []VariantEntryRequest `json:"variants" binding:"omitempty,dive"`
	MatchingConfig *MatchingConfig       `json:"matching_config" binding:"omitempty"`
}

// UpdateQuestionRequest is the payload for editing a question's text/type.
type UpdateQuestionRequest struct {
	Text        string       `json:"text" binding:"omitempty,min=1,max=4000"`
	Type        QuestionType `json:"type" binding:"omitempty,oneof=multichoice truefalse shortanswer matching essay numerical description"`
	MultiAnswer *bool        `json:"multi_answer" binding:"omitempty"`
}

// VariantEntryRequest is one answer option in a replace-variants payload.
type VariantEntryRequest struct {
	Text         string `json:"text" binding:"required,min=1,max=2000"`
	ExplainRight string `json:"explain_right" binding:"max=2000"`
	ExplainWrong string `json:"explain_wrong" binding:"max=2000"`
	IsRight      bool   `json:"is_right"`
}

// ReplaceVariantsRequest is the payload for replacing a question's full
// answer-option set.
type ReplaceVariantsRequest struct {
	Variants []VariantEntryRequest `json:"variants" binding:"required,min=1,dive"`
}

// ReplaceMatchingConfigRequest is the payload for replacing a matching
// question's answer key.
type ReplaceMatchingConfigRequest struct {
	Config MatchingConfig `json:"config" binding:"required"`
}

// SubmitAnswerRequest is the body of POST /questions/:id/solve. Exactly one
// of AnswerIDs / AnswerText must be present: ids for discrete types
// (multichoice, truefalse), text for the rest. The matching answer text is
// "leftId:rightId;leftId:rightId;..." — the delimiters are load-bearing
// wire contract.
type SubmitAnswerRequest struct {
	AnswerIDs  []uuid.UUID `json:"answerIds" binding:"omitempty,dive,uuid"`
	AnswerText string      `json:"answerText" binding:"omitempty,max=8000"`
	QuizID     uuid.UUID   `json:"quizId" binding:"required"`
}

// QuestionForDelivery is a question as sent to a quiz taker: answer keys,
// correctness flags and explanations stripped; matching right items come
// pre-shuffled per session.
type QuestionForDelivery struct {
	ID                 uuid.UUID       `json:"id"`
	Type               QuestionType    `json:"type"`
	MultiAnswer        *bool           `json:"multi_answer,omitempty"`
	Text               string          `json:"text"`
	Variants           []VariantOption `json:"variants,omitempty"`
	MatchingLeftItems  []MatchingItem  `json:"matching_left_items,omitempty"`
	MatchingRightItems []MatchingItem  `json:"matching_right_items,omitempty"`
	// AnswerKey is only populated for privileged (teacher) callers.
	AnswerKey *QuestionAnswerKey `json:"answer_key,omitempty"`
}

// VariantOption is the id+text projection of an answer option delivered to
// quiz takers.
type VariantOption struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

// QuestionAnswerKey is the teacher-only view of a question's key.
type QuestionAnswerKey struct {
	Variants     []VariantDetail `json:"variants,omitempty"`
	CorrectPairs []MatchingPair  `json:"correct_pairs,omitempty"`
}

// VariantDetail is a full answer option including correctness and
// explanations, returned to teachers and inside grading responses.
type VariantDetail struct {
	ID                uuid.UUID `json:"id"`
	Text              string    `json:"text"`
	ExplainRight      string    `json:"explain_right"`
	ExplainWrong      string    `json:"explain_wrong"`
	IsRight           *bool     `json:"is_right,omitempty"`
	QuestionVariantID uuid.UUID `json:"question_variant_id"`
}
