package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSingleChoice() Question {
	return Question{
		QuestionText: "pick one",
		Kind:         QuestionKindSingleChoice,
		Options: []QuestionOption{
			{Label: "A", Text: "first"},
			{Label: "B", Text: "second"},
		},
		CorrectLabel: "A",
		MaxPoints:    10,
		SetID:        1,
	}
}

func TestQuestionValidate(t *testing.T) {
	t.Run("valid single choice", func(t *testing.T) {
		q := validSingleChoice()
		assert.NoError(t, q.Validate())
	})

	t.Run("single choice needs two options", func(t *testing.T) {
		q := validSingleChoice()
		q.Options = q.Options[:1]
		assert.Error(t, q.Validate())
	})

	t.Run("duplicate labels rejected case-insensitively", func(t *testing.T) {
		q := validSingleChoice()
		q.Options = append(q.Options, QuestionOption{Label: "a", Text: "third"})
		assert.Error(t, q.Validate())
	})

	t.Run("correct label must match an option", func(t *testing.T) {
		q := validSingleChoice()
		q.CorrectLabel = "Z"
		assert.Error(t, q.Validate())
	})

	t.Run("correct label matches case-insensitively", func(t *testing.T) {
		q := validSingleChoice()
		q.CorrectLabel = "a"
		assert.NoError(t, q.Validate())
	})

	t.Run("free text carries no options", func(t *testing.T) {
		q := Question{
			QuestionText: "explain",
			Kind:         QuestionKindFreeText,
			MaxPoints:    15,
		}
		assert.NoError(t, q.Validate())

		q.CorrectLabel = "A"
		assert.Error(t, q.Validate())
	})

	t.Run("max points must be positive", func(t *testing.T) {
		q := validSingleChoice()
		q.MaxPoints = 0
		assert.Error(t, q.Validate())
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		q := Question{QuestionText: "?", Kind: "ESSAY", MaxPoints: 5}
		assert.Error(t, q.Validate())
	})
}

func TestForTeamStripsAnswerKey(t *testing.T) {
	q := validSingleChoice()
	ft := q.ForTeam()

	assert.Equal(t, q.ID, ft.ID)
	assert.Equal(t, q.QuestionText, ft.QuestionText)
	assert.Len(t, ft.Options, 2)
	// QuestionForTeam has no correct-label field at all; nothing to leak.
}
