package service

import "github.com/chakravyuh/quiz-backend/internal/model"

// ScoringPolicy exposes the point deltas of the current round config as
// pure accessors. It is a value snapshot: build one per request from the
// config row so in-flight submissions are not affected by config edits.
type ScoringPolicy struct {
	correct     int
	wrong       int
	threeWrong  int
	freeTextMax int
}

// NewScoringPolicy builds a policy from the round configuration.
func NewScoringPolicy(cfg *model.RoundConfig) ScoringPolicy {
	return ScoringPolicy{
		correct:     cfg.CorrectPoints,
		wrong:       cfg.WrongPenalty,
		threeWrong:  cfg.ThreeWrongPenalty,
		freeTextMax: cfg.FreeTextMaxPoints,
	}
}

// PointsForCorrect is the delta for a correct single-choice answer.
func (p ScoringPolicy) PointsForCorrect() int { return p.correct }

// PointsForWrong is the (negative) delta for a wrong single-choice answer.
func (p ScoringPolicy) PointsForWrong() int { return p.wrong }

// PointsForThreeWrong is the additional (large negative) delta applied on
// the third consecutive wrong answer, stacked on top of PointsForWrong.
func (p ScoringPolicy) PointsForThreeWrong() int { return p.threeWrong }

// FreeTextMaxPoints is the default ceiling for judge-assigned scores.
func (p ScoringPolicy) FreeTextMaxPoints() int { return p.freeTextMax }
