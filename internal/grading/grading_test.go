package grading

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/model"
)

func boolp(b bool) *bool { return &b }

func strp(s string) *string { return &s }

func variant(text string, right *bool) model.VariantWithLink {
	return model.VariantWithLink{
		Variant: model.Variant{
			ID:           uuid.New(),
			Text:         text,
			ExplainRight: "correct because " + text,
			ExplainWrong: "wrong because " + text,
			IsRight:      right,
		},
		QuestionVariantID: uuid.New(),
	}
}

func TestGradeTrueFalse(t *testing.T) {
	q := model.Question{ID: uuid.New(), Type: model.QuestionTypeTrueFalse}
	yes := variant("True", boolp(true))
	no := variant("False", boolp(false))
	vs := []model.VariantWithLink{yes, no}

	out, err := Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{yes.QuestionVariantID}})
	require.NoError(t, err)
	require.NotNil(t, out.IsRight)
	assert.True(t, *out.IsRight)
	require.Len(t, out.Picks, 1)
	assert.Equal(t, yes.QuestionVariantID, out.Picks[0].QuestionVariantID)
	assert.Equal(t, "correct because True", out.Graded[0].Explanation)

	out, err = Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{no.QuestionVariantID}})
	require.NoError(t, err)
	assert.False(t, *out.IsRight)
	assert.Equal(t, "wrong because False", out.Graded[0].Explanation)

	_, err = Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{yes.QuestionVariantID, no.QuestionVariantID}})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = Grade(q, vs, nil, Submission{})
	require.Error(t, err)

	_, err = Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{uuid.New()}})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGradeMultichoice(t *testing.T) {
	q := model.Question{ID: uuid.New(), Type: model.QuestionTypeMultichoice}
	a := variant("A", boolp(true))
	b := variant("B", boolp(true))
	c := variant("C", boolp(false))
	vs := []model.VariantWithLink{a, b, c}

	t.Run("all right selected", func(t *testing.T) {
		out, err := Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{a.QuestionVariantID, b.QuestionVariantID}})
		require.NoError(t, err)
		assert.True(t, *out.IsRight)
		assert.Len(t, out.Picks, 2)
	})

	t.Run("missing one right option", func(t *testing.T) {
		out, err := Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{a.QuestionVariantID}})
		require.NoError(t, err)
		assert.False(t, *out.IsRight)
		// the pick itself is still individually right
		assert.True(t, *out.Picks[0].IsRight)
	})

	t.Run("wrong option poisons verdict", func(t *testing.T) {
		out, err := Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{a.QuestionVariantID, b.QuestionVariantID, c.QuestionVariantID}})
		require.NoError(t, err)
		assert.False(t, *out.IsRight)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{a.QuestionVariantID, a.QuestionVariantID}})
		require.Error(t, err)
	})

	t.Run("foreign id rejected", func(t *testing.T) {
		_, err := Grade(q, vs, nil, Submission{AnswerIDs: []uuid.UUID{uuid.New()}})
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := Grade(q, vs, nil, Submission{})
		require.Error(t, err)
	})
}

func TestGradeFreeText(t *testing.T) {
	slot := variant("", nil)
	vs := []model.VariantWithLink{slot}

	for _, typ := range []model.QuestionType{model.QuestionTypeShortAnswer, model.QuestionTypeEssay} {
		q := model.Question{ID: uuid.New(), Type: typ}

		out, err := Grade(q, vs, nil, Submission{AnswerText: "  photosynthesis  "})
		require.NoError(t, err)
		assert.Nil(t, out.IsRight, "free text waits for review")
		require.Len(t, out.Picks, 1)
		assert.Equal(t, "photosynthesis", *out.Picks[0].AnswerText)
		assert.Nil(t, out.Picks[0].IsRight)

		_, err = Grade(q, vs, nil, Submission{AnswerText: "   "})
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
}

func TestGradeNumerical(t *testing.T) {
	q := model.Question{ID: uuid.New(), Type: model.QuestionTypeNumerical}
	key := variant("13", boolp(true))
	vs := []model.VariantWithLink{key}

	cases := []struct {
		answer string
		right  bool
	}{
		{"13", true},
		{"13.00005", true},
		{"12.99995", true},
		{"13.001", false},
		{"12.9", false},
		{"-13", false},
	}
	for _, tc := range cases {
		out, err := Grade(q, vs, nil, Submission{AnswerText: tc.answer})
		require.NoError(t, err, tc.answer)
		require.NotNil(t, out.IsRight, tc.answer)
		assert.Equal(t, tc.right, *out.IsRight, tc.answer)
	}

	_, err := Grade(q, vs, nil, Submission{AnswerText: "thirteen"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = Grade(q, vs, nil, Submission{AnswerText: ""})
	require.Error(t, err)

	t.Run("key is the right-flagged variant, not the first", func(t *testing.T) {
		decoy := variant("10", boolp(false))
		out, err := Grade(q, []model.VariantWithLink{decoy, key}, nil, Submission{AnswerText: "13"})
		require.NoError(t, err)
		require.NotNil(t, out.IsRight)
		assert.True(t, *out.IsRight)
		assert.Equal(t, key.QuestionVariantID, out.Picks[0].QuestionVariantID)

		out, err = Grade(q, []model.VariantWithLink{decoy, key}, nil, Submission{AnswerText: "10"})
		require.NoError(t, err)
		assert.False(t, *out.IsRight)
	})

	t.Run("no right-flagged value is a data error", func(t *testing.T) {
		_, err := Grade(q, []model.VariantWithLink{variant("13", boolp(false))}, nil, Submission{AnswerText: "13"})
		require.Error(t, err)
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	})
}

func TestGradeMatching(t *testing.T) {
	q := model.Question{ID: uuid.New(), Type: model.QuestionTypeMatching}
	slot := variant("", nil)
	vs := []model.VariantWithLink{slot}
	cfg := &model.MatchingConfig{
		LeftItems:  []model.MatchingItem{{ID: "l1", Text: "H2O"}, {ID: "l2", Text: "NaCl"}},
		RightItems: []model.MatchingItem{{ID: "r1", Text: "water"}, {ID: "r2", Text: "salt"}},
		CorrectPairs: []model.MatchingPair{
			{LeftID: "l1", RightID: "r1", ExplainRight: strp("yes, water")},
			{LeftID: "l2", RightID: "r2", ExplainWrong: strp("no, that is salt")},
		},
	}

	t.Run("exact match is right", func(t *testing.T) {
		out, err := Grade(q, vs, cfg, Submission{AnswerText: "l1:r1;l2:r2"})
		require.NoError(t, err)
		assert.True(t, *out.IsRight)
		require.Len(t, out.Pairs, 2)
		assert.Equal(t, "yes, water", out.Pairs[0].Explanation)
	})

	t.Run("order does not matter", func(t *testing.T) {
		out, err := Grade(q, vs, cfg, Submission{AnswerText: "l2:r2;l1:r1"})
		require.NoError(t, err)
		assert.True(t, *out.IsRight)
	})

	t.Run("swapped pair is wrong", func(t *testing.T) {
		out, err := Grade(q, vs, cfg, Submission{AnswerText: "l1:r2;l2:r1"})
		require.NoError(t, err)
		assert.False(t, *out.IsRight)
		assert.False(t, out.Pairs[1].IsRight)
		assert.Equal(t, "no, that is salt", out.Pairs[1].Explanation)
	})

	t.Run("incomplete set is wrong", func(t *testing.T) {
		out, err := Grade(q, vs, cfg, Submission{AnswerText: "l1:r1"})
		require.NoError(t, err)
		assert.False(t, *out.IsRight)
		assert.True(t, out.Pairs[0].IsRight)
	})

	t.Run("extra wrong pair is wrong", func(t *testing.T) {
		out, err := Grade(q, vs, cfg, Submission{AnswerText: "l1:r1;l2:r2;l1:r2"})
		require.NoError(t, err)
		assert.False(t, *out.IsRight)
	})

	t.Run("trailing separator tolerated", func(t *testing.T) {
		out, err := Grade(q, vs, cfg, Submission{AnswerText: "l1:r1;l2:r2;"})
		require.NoError(t, err)
		assert.True(t, *out.IsRight)
	})

	t.Run("malformed pair rejected", func(t *testing.T) {
		_, err := Grade(q, vs, cfg, Submission{AnswerText: "l1-r1"})
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

		_, err = Grade(q, vs, cfg, Submission{AnswerText: "l1:"})
		require.Error(t, err)
	})

	t.Run("empty rejected", func(t *testing.T) {
		_, err := Grade(q, vs, cfg, Submission{AnswerText: ";;"})
		require.Error(t, err)
	})

	t.Run("missing config is internal", func(t *testing.T) {
		_, err := Grade(q, vs, nil, Submission{AnswerText: "l1:r1"})
		require.Error(t, err)
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	})
}

func TestGradeDescription(t *testing.T) {
	q := model.Question{ID: uuid.New(), Type: model.QuestionTypeDescription}
	_, err := Grade(q, nil, nil, Submission{AnswerText: "anything"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestParsePairs(t *testing.T) {
	pairs, err := ParsePairs(" l1 : r1 ; l2:r2 ")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "l1", pairs[0].LeftID)
	assert.Equal(t, "r1", pairs[0].RightID)

	_, err = ParsePairs("a:b:c")
	require.Error(t, err)
}
