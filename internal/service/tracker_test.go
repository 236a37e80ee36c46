package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chakravyuh/quiz-backend/internal/model"
)

func testPolicy() ScoringPolicy {
	return NewScoringPolicy(&model.RoundConfig{
		CorrectPoints:     10,
		FreeTextMaxPoints: 15,
		WrongPenalty:      -5,
		ThreeWrongPenalty: -20,
	})
}

func singleChoice() *model.Question {
	return &model.Question{
		ID:           1,
		QuestionText: "pick one",
		Kind:         model.QuestionKindSingleChoice,
		Options: []model.QuestionOption{
			{Label: "A", Text: "first"},
			{Label: "B", Text: "second"},
		},
		CorrectLabel: "B",
		MaxPoints:    10,
		SetID:        1,
	}
}

func freeText() *model.Question {
	return &model.Question{
		ID:           2,
		QuestionText: "explain",
		Kind:         model.QuestionKindFreeText,
		MaxPoints:    15,
		SetID:        1,
	}
}

func TestApplyAnswerCorrectAdvances(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: 3, TotalScore: 20, SetNumber: 1}

	res := ApplyAnswer(p, singleChoice(), "B", testPolicy(), time.Now())

	assert.Equal(t, OutcomeNextQuestion, res.Outcome)
	require.NotNil(t, res.IsCorrect)
	assert.True(t, *res.IsCorrect)
	assert.Equal(t, 10, res.ScoreDelta)
	assert.Equal(t, 4, p.Position)
	assert.Equal(t, 30, p.TotalScore)
	assert.False(t, p.Completed)
}

func TestApplyAnswerIsCaseInsensitiveAndTrimmed(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: 1, SetNumber: 1}

	res := ApplyAnswer(p, singleChoice(), "  b ", testPolicy(), time.Now())

	require.NotNil(t, res.IsCorrect)
	assert.True(t, *res.IsCorrect)
	assert.Equal(t, 2, p.Position)
}

func TestApplyAnswerCorrectAtLastPositionCompletes(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: model.TotalPositions, TotalScore: 50, SetNumber: 2}
	now := time.Now()

	res := ApplyAnswer(p, singleChoice(), "B", testPolicy(), now)

	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.True(t, p.Completed)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, now, *p.CompletedAt)
	assert.Equal(t, 60, p.TotalScore)
	// Position does not advance past the end.
	assert.Equal(t, model.TotalPositions, p.Position)
}

func TestApplyAnswerCorrectResetsWrongCount(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: 2, WrongCount: 2, SetNumber: 1}

	ApplyAnswer(p, singleChoice(), "B", testPolicy(), time.Now())

	assert.Zero(t, p.WrongCount)
}

func TestApplyAnswerWrongResetsToFirst(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: 5, TotalScore: 40, SetNumber: 1}

	res := ApplyAnswer(p, singleChoice(), "A", testPolicy(), time.Now())

	assert.Equal(t, OutcomeResetToFirst, res.Outcome)
	require.NotNil(t, res.IsCorrect)
	assert.False(t, *res.IsCorrect)
	assert.Equal(t, -5, res.ScoreDelta)
	assert.Equal(t, 1, p.Position)
	assert.Equal(t, 35, p.TotalScore)
	assert.Equal(t, 1, p.WrongCount)
	assert.False(t, res.NewSetNeeded)
	assert.Equal(t, 1, p.SetNumber)
}

func TestApplyAnswerThirdWrongStacksBothPenalties(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: 1, SetNumber: 1}
	policy := testPolicy()

	// Two wrong answers: -5 each, back to position 1.
	ApplyAnswer(p, singleChoice(), "A", policy, time.Now())
	ApplyAnswer(p, singleChoice(), "A", policy, time.Now())
	assert.Equal(t, 2, p.WrongCount)
	assert.Equal(t, -10, p.TotalScore)

	// Third wrong answer: -5 and -20 stacked, counter cleared, new set.
	res := ApplyAnswer(p, singleChoice(), "A", policy, time.Now())

	assert.Equal(t, OutcomeResetNewSet, res.Outcome)
	assert.Equal(t, -25, res.ScoreDelta)
	assert.Equal(t, -35, p.TotalScore)
	assert.Zero(t, p.WrongCount)
	assert.Equal(t, 1, p.Position)
	assert.True(t, res.NewSetNeeded)
}

func TestApplyAnswerFreeTextLeavesProgressUntouched(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: 4, TotalScore: 30, WrongCount: 2, SetNumber: 1}
	before := *p

	res := ApplyAnswer(p, freeText(), "my long explanation", testPolicy(), time.Now())

	assert.Equal(t, OutcomeQueuedForReview, res.Outcome)
	assert.Nil(t, res.IsCorrect)
	assert.Zero(t, res.ScoreDelta)
	assert.Equal(t, before, *p)
}

func TestApplyReviewAdvancesEvenWithZeroPoints(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: 4, TotalScore: 30, WrongCount: 2, SetNumber: 1}

	res := ApplyReview(p, 0, time.Now())

	assert.Equal(t, OutcomeNextQuestion, res.Outcome)
	assert.Equal(t, 5, p.Position)
	assert.Equal(t, 30, p.TotalScore)
	// Reviewed answers never count as wrong.
	assert.Equal(t, 2, p.WrongCount)
}

func TestApplyReviewAtLastPositionCompletes(t *testing.T) {
	p := &model.TeamProgress{TeamID: 1, Position: model.TotalPositions, TotalScore: 55, SetNumber: 1}
	now := time.Now()

	res := ApplyReview(p, 12, now)

	assert.Equal(t, OutcomeCompleted, res.Outcome)
	assert.True(t, p.Completed)
	assert.Equal(t, 67, p.TotalScore)
	require.NotNil(t, p.CompletedAt)
}

func TestValidTransition(t *testing.T) {
	cases := []struct {
		from, to model.RoundState
		ok       bool
	}{
		{model.RoundStateLocked, model.RoundStateActive, true},
		{model.RoundStateActive, model.RoundStateCompleted, true},
		{model.RoundStateCompleted, model.RoundStatePublished, true},
		{model.RoundStateLocked, model.RoundStateCompleted, false},
		{model.RoundStateLocked, model.RoundStatePublished, false},
		{model.RoundStateActive, model.RoundStatePublished, false},
		{model.RoundStateCompleted, model.RoundStateActive, false},
		{model.RoundStatePublished, model.RoundStateActive, false},
		// Reset is allowed from anywhere.
		{model.RoundStateActive, model.RoundStateLocked, true},
		{model.RoundStatePublished, model.RoundStateLocked, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, validTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}
