// Package grading evaluates a submitted answer against a question's answer
// key. It is pure: no storage, no clock, no randomness. The caller loads
// the question, its variants and (for matching) its config, and persists
// whatever Outcome says.
package grading

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/model"
)

// Tolerance is the maximum absolute difference accepted when comparing a
// numerical answer against the stored value.
const Tolerance = 1e-4

// Submission is the normalized answer input. Discrete types carry
// question-variant link ids; text types carry the raw text.
type Submission struct {
	AnswerIDs  []uuid.UUID
	AnswerText string
}

// Pick is one chosen_variants row to persist.
type Pick struct {
	QuestionVariantID uuid.UUID
	AnswerText        *string
	IsRight           *bool
}

// Outcome is the verdict plus everything the caller must record. IsRight
// is nil when the type needs manual review (essay, shortanswer).
type Outcome struct {
	IsRight *bool
	Picks   []Pick
	Graded  []model.GradedPick
	Pairs   []model.GradedPair
}

// Grade evaluates a submission. Variants must be the question's full
// option set; cfg must be non-nil for matching questions.
func Grade(q model.Question, variants []model.VariantWithLink, cfg *model.MatchingConfig, sub Submission) (Outcome, error) {
	switch q.Type {
	case model.QuestionTypeTrueFalse:
		return gradeTrueFalse(variants, sub)
	case model.QuestionTypeMultichoice:
		return gradeMultichoice(variants, sub)
	case model.QuestionTypeShortAnswer, model.QuestionTypeEssay:
		return gradeFreeText(variants, sub)
	case model.QuestionTypeNumerical:
		return gradeNumerical(variants, sub)
	case model.QuestionTypeMatching:
		return gradeMatching(variants, cfg, sub)
	case model.QuestionTypeDescription:
		return Outcome{}, apperror.Validation("description blocks cannot be answered")
	default:
		return Outcome{}, apperror.Validationf("unknown question type %q", q.Type)
	}
}

func gradeTrueFalse(variants []model.VariantWithLink, sub Submission) (Outcome, error) {
	if len(sub.AnswerIDs) != 1 {
		return Outcome{}, apperror.Validation("exactly one answer is required")
	}
	v, ok := findByLink(variants, sub.AnswerIDs[0])
	if !ok {
		return Outcome{}, apperror.Validation("answer does not belong to this question")
	}
	right := v.IsRight != nil && *v.IsRight
	out := Outcome{IsRight: &right}
	out.Picks = append(out.Picks, Pick{QuestionVariantID: v.QuestionVariantID, IsRight: boolPtr(right)})
	out.Graded = append(out.Graded, model.GradedPick{
		QuestionVariantID: v.QuestionVariantID,
		IsRight:           right,
		Explanation:       explanationFor(v.Variant, right),
	})
	return out, nil
}

func gradeMultichoice(variants []model.VariantWithLink, sub Submission) (Outcome, error) {
	if len(sub.AnswerIDs) == 0 {
		return Outcome{}, apperror.Validation("at least one answer is required")
	}
	selected := make(map[uuid.UUID]bool, len(sub.AnswerIDs))
	out := Outcome{}
	allSelectedRight := true
	for _, id := range sub.AnswerIDs {
		if selected[id] {
			return Outcome{}, apperror.Validation("duplicate answer id")
		}
		selected[id] = true
		v, ok := findByLink(variants, id)
		if !ok {
			return Outcome{}, apperror.Validation("answer does not belong to this question")
		}
		right := v.IsRight != nil && *v.IsRight
		if !right {
			allSelectedRight = false
		}
		out.Picks = append(out.Picks, Pick{QuestionVariantID: v.QuestionVariantID, IsRight: boolPtr(right)})
		out.Graded = append(out.Graded, model.GradedPick{
			QuestionVariantID: v.QuestionVariantID,
			IsRight:           right,
			Explanation:       explanationFor(v.Variant, right),
		})
	}
	allRightSelected := true
	for _, v := range variants {
		if v.IsRight != nil && *v.IsRight && !selected[v.QuestionVariantID] {
			allRightSelected = false
			break
		}
	}
	verdict := allSelectedRight && allRightSelected
	out.IsRight = &verdict
	return out, nil
}

func gradeFreeText(variants []model.VariantWithLink, sub Submission) (Outcome, error) {
	text := strings.TrimSpace(sub.AnswerText)
	if text == "" {
		return Outcome{}, apperror.Validation("answer text is required")
	}
	if len(variants) == 0 {
		return Outcome{}, apperror.Internal("question has no answer slot", nil)
	}
	// Free-text answers wait for manual review; IsRight stays nil.
	return Outcome{
		Picks: []Pick{{QuestionVariantID: variants[0].QuestionVariantID, AnswerText: &text}},
	}, nil
}

func gradeNumerical(variants []model.VariantWithLink, sub Submission) (Outcome, error) {
	text := strings.TrimSpace(sub.AnswerText)
	if text == "" {
		return Outcome{}, apperror.Validation("answer text is required")
	}
	submitted, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Outcome{}, apperror.Validation("answer is not a number")
	}
	// The stored value is the variant flagged right; position in the set
	// carries no meaning.
	key, ok := findRight(variants)
	if !ok {
		return Outcome{}, apperror.Internal("numerical question has no right-flagged value", nil)
	}
	expected, err := strconv.ParseFloat(strings.TrimSpace(key.Text), 64)
	if err != nil {
		return Outcome{}, apperror.Internal("stored numerical key is not a number", err)
	}
	right := math.Abs(expected-submitted) < Tolerance
	return Outcome{
		IsRight: &right,
		Picks:   []Pick{{QuestionVariantID: key.QuestionVariantID, AnswerText: &text, IsRight: boolPtr(right)}},
		Graded: []model.GradedPick{{
			QuestionVariantID: key.QuestionVariantID,
			IsRight:           right,
			Explanation:       explanationFor(key.Variant, right),
		}},
	}, nil
}

func gradeMatching(variants []model.VariantWithLink, cfg *model.MatchingConfig, sub Submission) (Outcome, error) {
	if cfg == nil {
		return Outcome{}, apperror.Internal("matching question has no config", nil)
	}
	pairs, err := ParsePairs(sub.AnswerText)
	if err != nil {
		return Outcome{}, err
	}
	if len(pairs) == 0 {
		return Outcome{}, apperror.Validation("at least one pair is required")
	}
	correct := make(map[string]model.MatchingPair, len(cfg.CorrectPairs))
	for _, p := range cfg.CorrectPairs {
		correct[p.LeftID+":"+p.RightID] = p
	}

	out := Outcome{}
	matched := make(map[string]bool, len(pairs))
	allRight := true
	for _, p := range pairs {
		key := p.LeftID + ":" + p.RightID
		cp, right := correct[key]
		if right {
			matched[key] = true
		} else {
			allRight = false
		}
		g := model.GradedPair{LeftID: p.LeftID, RightID: p.RightID, IsRight: right}
		if right && cp.ExplainRight != nil {
			g.Explanation = *cp.ExplainRight
		} else if !right {
			if byLeft := explainWrongFor(cfg, p.LeftID); byLeft != "" {
				g.Explanation = byLeft
			}
		}
		out.Pairs = append(out.Pairs, g)
	}

	// Right only when every submitted pair is correct and every correct
	// pair was submitted. Pair counts are implied by the two conditions
	// together with matched being a set.
	verdict := allRight && len(matched) == len(correct) && len(pairs) == len(cfg.CorrectPairs)
	out.IsRight = &verdict

	if len(variants) > 0 {
		text := strings.TrimSpace(sub.AnswerText)
		out.Picks = append(out.Picks, Pick{
			QuestionVariantID: variants[0].QuestionVariantID,
			AnswerText:        &text,
			IsRight:           boolPtr(verdict),
		})
	}
	return out, nil
}

// ParsePairs decodes the "leftId:rightId;leftId:rightId" wire form of a
// matching answer. Empty segments are skipped; a segment without exactly
// one colon is a validation error.
func ParsePairs(text string) ([]model.MatchingPair, error) {
	var pairs []model.MatchingPair
	for _, seg := range strings.Split(text, ";") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		parts := strings.Split(seg, ":")
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
			return nil, apperror.Validationf("malformed pair %q", seg)
		}
		pairs = append(pairs, model.MatchingPair{
			LeftID:  strings.TrimSpace(parts[0]),
			RightID: strings.TrimSpace(parts[1]),
		})
	}
	return pairs, nil
}

func explainWrongFor(cfg *model.MatchingConfig, leftID string) string {
	for _, p := range cfg.CorrectPairs {
		if p.LeftID == leftID && p.ExplainWrong != nil {
			return *p.ExplainWrong
		}
	}
	return ""
}

func explanationFor(v model.Variant, right bool) string {
	if right {
		return v.ExplainRight
	}
	return v.ExplainWrong
}

func findRight(variants []model.VariantWithLink) (model.VariantWithLink, bool) {
	for _, v := range variants {
		if v.IsRight != nil && *v.IsRight {
			return v, true
		}
	}
	return model.VariantWithLink{}, false
}

func findByLink(variants []model.VariantWithLink, linkID uuid.UUID) (model.VariantWithLink, bool) {
	for _, v := range variants {
		if v.QuestionVariantID == linkID {
			return v, true
		}
	}
	return model.VariantWithLink{}, false
}

func boolPtr(b bool) *bool { return &b }
