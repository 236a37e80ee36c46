package model

import (
	"errors"
	"strings"
)

// QuestionKind enumerates the supported question kinds.
type QuestionKind string

const (
	// QuestionKindSingleChoice is auto-graded against the correct label.
	QuestionKindSingleChoice QuestionKind = "SINGLE_CHOICE"
	// QuestionKindFreeText is always deferred to a judge for evaluation.
	QuestionKindFreeText QuestionKind = "FREE_TEXT"
)

// QuestionOption is one labelled choice of a single-choice question.
// Options are stored as an ordered list so the presentation order is stable.
type QuestionOption struct {
	Label string `json:"label" binding:"required,max=10"`
	Text  string `json:"text" binding:"required,max=500"`
}

// Question represents one entry of the question bank. Questions belong to
// exactly one set and are immutable once created.
type Question struct {
	ID           int              `json:"id"`
	QuestionText string           `json:"question_text"`
	Kind         QuestionKind     `json:"kind"`
	Options      []QuestionOption `json:"options,omitempty"`
	CorrectLabel string           `json:"correct_label,omitempty"`
	MaxPoints    int              `json:"max_points"`
	SetID        int              `json:"set_id"`
}

// QuestionForTeam is a question as sent to a participating team.
// It never carries the correct label.
type QuestionForTeam struct {
	ID           int              `json:"id"`
	QuestionText string           `json:"text"`
	Kind         QuestionKind     `json:"kind"`
	Options      []QuestionOption `json:"options,omitempty"`
	MaxPoints    int              `json:"max_points"`
}

// ForTeam strips the answer key from a question.
func (q *Question) ForTeam() QuestionForTeam {
	return QuestionForTeam{
		ID:           q.ID,
		QuestionText: q.QuestionText,
		Kind:         q.Kind,
		Options:      q.Options,
		MaxPoints:    q.MaxPoints,
	}
}

// Validate checks the structural invariants of a question at ingestion time.
// Single-choice questions must carry at least two options and a correct
// label matching one of them; free-text questions carry neither.
func (q *Question) Validate() error {
	switch q.Kind {
	case QuestionKindSingleChoice:
		if len(q.Options) < 2 {
			return errors.New("single-choice question needs at least two options")
		}
		seen := make(map[string]bool, len(q.Options))
		for _, opt := range q.Options {
			key := strings.ToUpper(opt.Label)
			if seen[key] {
				return errors.New("duplicate option label: " + opt.Label)
			}
			seen[key] = true
		}
		if !seen[strings.ToUpper(q.CorrectLabel)] {
			return errors.New("correct label does not match any option")
		}
	case QuestionKindFreeText:
		if len(q.Options) > 0 || q.CorrectLabel != "" {
			return errors.New("free-text question must not carry options or a correct label")
		}
	default:
		return errors.New("unknown question kind: " + string(q.Kind))
	}
	if q.MaxPoints <= 0 {
		return errors.New("max points must be positive")
	}
	return nil
}
