package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chakravyuh/quiz-backend/internal/model"
)

func TestNewScoringPolicySnapshotsConfig(t *testing.T) {
	cfg := &model.RoundConfig{
		CorrectPoints:     8,
		FreeTextMaxPoints: 12,
		WrongPenalty:      -3,
		ThreeWrongPenalty: -15,
	}

	policy := NewScoringPolicy(cfg)

	// Later config edits must not leak into an existing policy value.
	cfg.CorrectPoints = 100
	cfg.WrongPenalty = 0

	assert.Equal(t, 8, policy.PointsForCorrect())
	assert.Equal(t, -3, policy.PointsForWrong())
	assert.Equal(t, -15, policy.PointsForThreeWrong())
	assert.Equal(t, 12, policy.FreeTextMaxPoints())
}
