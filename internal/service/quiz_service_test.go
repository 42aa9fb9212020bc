package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizora/quizora-backend/internal/model"
)

func TestValidateQuestion(t *testing.T) {
	two := []model.VariantEntryRequest{
		{Text: "True", IsRight: true},
		{Text: "False"},
	}

	tests := []struct {
		name    string
		q       model.CreateQuestionRequest
		wantErr bool
	}{
		{
			name: "multichoice ok",
			q: model.CreateQuestionRequest{
				Type: model.QuestionTypeMultichoice,
				Text: "Pick",
				Variants: []model.VariantEntryRequest{
					{Text: "a", IsRight: true},
					{Text: "b"},
					{Text: "c", IsRight: true},
				},
			},
		},
		{
			name: "multichoice single option",
			q: model.CreateQuestionRequest{
				Type:     model.QuestionTypeMultichoice,
				Text:     "Pick",
				Variants: []model.VariantEntryRequest{{Text: "a", IsRight: true}},
			},
			wantErr: true,
		},
		{
			name: "multichoice no correct option",
			q: model.CreateQuestionRequest{
				Type:     model.QuestionTypeMultichoice,
				Text:     "Pick",
				Variants: []model.VariantEntryRequest{{Text: "a"}, {Text: "b"}},
			},
			wantErr: true,
		},
		{
			name: "truefalse ok",
			q:    model.CreateQuestionRequest{Type: model.QuestionTypeTrueFalse, Text: "?", Variants: two},
		},
		{
			name: "truefalse both marked right",
			q: model.CreateQuestionRequest{
				Type: model.QuestionTypeTrueFalse,
				Text: "?",
				Variants: []model.VariantEntryRequest{
					{Text: "True", IsRight: true},
					{Text: "False", IsRight: true},
				},
			},
			wantErr: true,
		},
		{
			name: "numerical ok",
			q: model.CreateQuestionRequest{
				Type:     model.QuestionTypeNumerical,
				Text:     "6*7",
				Variants: []model.VariantEntryRequest{{Text: " 42.0 ", IsRight: true}},
			},
		},
		{
			name: "numerical key not marked correct",
			q: model.CreateQuestionRequest{
				Type:     model.QuestionTypeNumerical,
				Text:     "6*7",
				Variants: []model.VariantEntryRequest{{Text: "42"}},
			},
			wantErr: true,
		},
		{
			name: "numerical two stored values",
			q: model.CreateQuestionRequest{
				Type: model.QuestionTypeNumerical,
				Text: "6*7",
				Variants: []model.VariantEntryRequest{
					{Text: "42", IsRight: true},
					{Text: "41", IsRight: true},
				},
			},
			wantErr: true,
		},
		{
			name: "numerical not a number",
			q: model.CreateQuestionRequest{
				Type:     model.QuestionTypeNumerical,
				Text:     "6*7",
				Variants: []model.VariantEntryRequest{{Text: "forty-two", IsRight: true}},
			},
			wantErr: true,
		},
		{
			name: "essay with options",
			q: model.CreateQuestionRequest{
				Type:     model.QuestionTypeEssay,
				Text:     "Discuss",
				Variants: []model.VariantEntryRequest{{Text: "a"}},
			},
			wantErr: true,
		},
		{
			name: "description ok",
			q:    model.CreateQuestionRequest{Type: model.QuestionTypeDescription, Text: "Read this first"},
		},
		{
			name:    "matching without config",
			q:       model.CreateQuestionRequest{Type: model.QuestionTypeMatching, Text: "Match"},
			wantErr: true,
		},
		{
			name:    "unknown type",
			q:       model.CreateQuestionRequest{Type: "ranking", Text: "?"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateQuestion(tt.q)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMatchingConfig(t *testing.T) {
	valid := func() *model.MatchingConfig {
		return &model.MatchingConfig{
			LeftItems:  []model.MatchingItem{{ID: "l1", Text: "Dog"}, {ID: "l2", Text: "Cat"}},
			RightItems: []model.MatchingItem{{ID: "r1", Text: "Bark"}, {ID: "r2", Text: "Meow"}},
			CorrectPairs: []model.MatchingPair{
				{LeftID: "l1", RightID: "r1"},
				{LeftID: "l2", RightID: "r2"},
			},
		}
	}

	require.NoError(t, validateMatchingConfig(valid()))

	t.Run("empty column", func(t *testing.T) {
		cfg := valid()
		cfg.RightItems = nil
		assert.Error(t, validateMatchingConfig(cfg))
	})

	t.Run("no pairs", func(t *testing.T) {
		cfg := valid()
		cfg.CorrectPairs = nil
		assert.Error(t, validateMatchingConfig(cfg))
	})

	t.Run("duplicate left id", func(t *testing.T) {
		cfg := valid()
		cfg.LeftItems[1].ID = "l1"
		assert.Error(t, validateMatchingConfig(cfg))
	})

	t.Run("pair references unknown id", func(t *testing.T) {
		cfg := valid()
		cfg.CorrectPairs[0].RightID = "r9"
		assert.Error(t, validateMatchingConfig(cfg))
	})

	t.Run("duplicate pair", func(t *testing.T) {
		cfg := valid()
		cfg.CorrectPairs[1] = cfg.CorrectPairs[0]
		assert.Error(t, validateMatchingConfig(cfg))
	})
}

func TestRemintMatchingConfig(t *testing.T) {
	explain := "dogs bark"
	in := &model.MatchingConfig{
		LeftItems:  []model.MatchingItem{{ID: "l1", Text: "Dog"}, {ID: "l2", Text: "Cat"}},
		RightItems: []model.MatchingItem{{ID: "r1", Text: "Bark"}, {ID: "r2", Text: "Meow"}},
		CorrectPairs: []model.MatchingPair{
			{LeftID: "l1", RightID: "r1", ExplainRight: &explain},
			{LeftID: "l2", RightID: "r2"},
		},
	}

	out := remintMatchingConfig(in)

	clientIDs := map[string]bool{"l1": true, "l2": true, "r1": true, "r2": true}
	for _, it := range out.LeftItems {
		assert.NotEmpty(t, it.ID)
		assert.False(t, clientIDs[it.ID], "client id %q must not survive a replace", it.ID)
	}
	for _, it := range out.RightItems {
		assert.False(t, clientIDs[it.ID], "client id %q must not survive a replace", it.ID)
	}
	assert.Equal(t, "Dog", out.LeftItems[0].Text)
	assert.Equal(t, "Meow", out.RightItems[1].Text)

	// Pairs follow the items onto their fresh ids.
	require.Len(t, out.CorrectPairs, 2)
	assert.Equal(t, out.LeftItems[0].ID, out.CorrectPairs[0].LeftID)
	assert.Equal(t, out.RightItems[0].ID, out.CorrectPairs[0].RightID)
	assert.Equal(t, out.LeftItems[1].ID, out.CorrectPairs[1].LeftID)
	assert.Equal(t, out.RightItems[1].ID, out.CorrectPairs[1].RightID)
	require.NotNil(t, out.CorrectPairs[0].ExplainRight)
	assert.Equal(t, "dogs bark", *out.CorrectPairs[0].ExplainRight)

	// Replacing the same config twice never reuses ids.
	again := remintMatchingConfig(in)
	assert.NotEqual(t, out.LeftItems[0].ID, again.LeftItems[0].ID)
}
