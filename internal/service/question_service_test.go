package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizora/quizora-backend/internal/model"
)

func TestDeliverySeed(t *testing.T) {
	userID := uuid.New()
	quizID := uuid.New()
	sessionID := uuid.New()

	assert.Equal(t, sessionID.String(), deliverySeed(userID, quizID, &sessionID),
		"an open attempt seeds by its session")
	assert.Equal(t, userID.String()+"_"+quizID.String(), deliverySeed(userID, quizID, nil),
		"no session falls back to the (user, quiz) pair")

	otherUser := uuid.New()
	assert.NotEqual(t, deliverySeed(userID, quizID, nil), deliverySeed(otherUser, quizID, nil),
		"different users get different fallback seeds")
}

func TestShuffleMatchingColumns(t *testing.T) {
	items := []model.MatchingItem{
		{ID: "a", Text: "Alpha"},
		{ID: "b", Text: "Beta"},
		{ID: "c", Text: "Gamma"},
		{ID: "d", Text: "Delta"},
		{ID: "e", Text: "Epsilon"},
	}
	build := func() []model.QuestionForDelivery {
		return []model.QuestionForDelivery{
			{
				ID:                 uuid.MustParse("11111111-1111-1111-1111-111111111111"),
				Type:               model.QuestionTypeMatching,
				MatchingRightItems: append([]model.MatchingItem(nil), items...),
			},
			{
				ID:   uuid.MustParse("22222222-2222-2222-2222-222222222222"),
				Type: model.QuestionTypeMultichoice,
				Variants: []model.VariantOption{
					{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), Text: "One"},
				},
			},
		}
	}

	first := shuffleMatchingColumns(build(), "seed-1")
	repeat := shuffleMatchingColumns(build(), "seed-1")

	require.Len(t, first[0].MatchingRightItems, len(items))
	assert.Equal(t, first[0].MatchingRightItems, repeat[0].MatchingRightItems,
		"same seed reproduces the same order")
	assert.ElementsMatch(t, items, first[0].MatchingRightItems,
		"shuffle permutes, never drops")

	reordered := false
	for _, seed := range []string{"seed-2", "seed-3", "seed-4", "seed-5"} {
		other := shuffleMatchingColumns(build(), seed)
		if !assert.ObjectsAreEqual(first[0].MatchingRightItems, other[0].MatchingRightItems) {
			reordered = true
			break
		}
	}
	assert.True(t, reordered, "different seeds reorder differently")

	// Non-matching questions pass through untouched.
	assert.Equal(t, build()[1].Variants, first[1].Variants)
}
