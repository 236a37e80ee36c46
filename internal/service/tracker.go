package service

import (
	"strings"
	"time"

	"github.com/chakravyuh/quiz-backend/internal/model"
)

// Outcome enumerates what happened to a team's progress after an answer or
// a judge review was applied.
type Outcome string

const (
	// OutcomeNextQuestion moves the team forward one position.
	OutcomeNextQuestion Outcome = "NEXT_QUESTION"
	// OutcomeResetToFirst sends the team back to position 1 of its current set.
	OutcomeResetToFirst Outcome = "RESET_TO_FIRST"
	// OutcomeResetNewSet sends the team to position 1 of a fresh set after
	// the third consecutive wrong answer.
	OutcomeResetNewSet Outcome = "RESET_NEW_SET"
	// OutcomeCompleted marks the team as done with all positions.
	OutcomeCompleted Outcome = "COMPLETED"
	// OutcomeQueuedForReview records a free-text answer without touching
	// the team's progress.
	OutcomeQueuedForReview Outcome = "QUEUED_FOR_REVIEW"
)

// TransitionResult describes the effect of one progress transition.
type TransitionResult struct {
	Outcome    Outcome
	ScoreDelta int
	// IsCorrect is nil for free-text answers awaiting review.
	IsCorrect *bool
	// NewSetNeeded signals the caller to draw and assign a fresh question
	// set before persisting.
	NewSetNeeded bool
}

// ApplyAnswer evaluates a submitted answer against the team's current
// question and mutates the progress in place. Single-choice answers are
// compared case-insensitively against the correct label. Free-text answers
// leave the progress untouched and are queued for judge review.
//
// The function is pure over its inputs: callers persist the mutated
// progress with a compare-and-swap so concurrent submissions serialize.
func ApplyAnswer(p *model.TeamProgress, q *model.Question, answer string, policy ScoringPolicy, now time.Time) TransitionResult {
	if q.Kind == model.QuestionKindFreeText {
		return TransitionResult{Outcome: OutcomeQueuedForReview}
	}

	if strings.EqualFold(strings.TrimSpace(answer), q.CorrectLabel) {
		correct := true
		res := TransitionResult{IsCorrect: &correct, ScoreDelta: policy.PointsForCorrect()}
		p.TotalScore += res.ScoreDelta
		p.WrongCount = 0
		if p.Position >= model.TotalPositions {
			p.Completed = true
			t := now
			p.CompletedAt = &t
			res.Outcome = OutcomeCompleted
		} else {
			p.Position++
			res.Outcome = OutcomeNextQuestion
		}
		return res
	}

	wrong := false
	res := TransitionResult{IsCorrect: &wrong}
	p.WrongCount++
	if p.WrongCount >= 3 {
		// Third miss stacks both penalties and moves the team to a new set.
		// The caller draws the replacement set and updates SetNumber.
		res.ScoreDelta = policy.PointsForWrong() + policy.PointsForThreeWrong()
		res.Outcome = OutcomeResetNewSet
		res.NewSetNeeded = true
		p.WrongCount = 0
	} else {
		res.ScoreDelta = policy.PointsForWrong()
		res.Outcome = OutcomeResetToFirst
	}
	p.TotalScore += res.ScoreDelta
	p.Position = 1
	return res
}

// ApplyReview applies a judge-assigned score to a pending free-text
// submission's team and always advances the position, regardless of the
// points awarded. Wrong-answer counting never applies to reviewed answers.
func ApplyReview(p *model.TeamProgress, points int, now time.Time) TransitionResult {
	res := TransitionResult{ScoreDelta: points}
	p.TotalScore += points
	if p.Position >= model.TotalPositions {
		p.Completed = true
		t := now
		p.CompletedAt = &t
		res.Outcome = OutcomeCompleted
	} else {
		p.Position++
		res.Outcome = OutcomeNextQuestion
	}
	return res
}

// validTransition reports whether the round may move between the two
// states. The lifecycle is forward-only; the reset to LOCKED is handled
// separately and allowed from any state.
func validTransition(from, to model.RoundState) bool {
	switch to {
	case model.RoundStateActive:
		return from == model.RoundStateLocked
	case model.RoundStateCompleted:
		return from == model.RoundStateActive
	case model.RoundStatePublished:
		return from == model.RoundStateCompleted
	case model.RoundStateLocked:
		return true
	}
	return false
}
