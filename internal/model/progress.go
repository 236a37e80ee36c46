package model

import "time"

// TotalPositions is the fixed length of a question set. A team must clear
// positions 1..TotalPositions to complete the round.
const TotalPositions = 7

// TeamProgress is the per-team round state. It is mutated only by the
// progress tracker and the round controller; every write is guarded by a
// compare-and-swap on Version.
type TeamProgress struct {
	TeamID       int        `json:"team_id"`
	Position     int        `json:"position"`
	TotalScore   int        `json:"total_score"`
	WrongCount   int        `json:"wrong_count"`
	SetNumber    int        `json:"set_number"`
	CarryForward int        `json:"carry_forward"`
	Completed    bool       `json:"completed"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Version      int        `json:"-"`
}

// SubmitAnswerRequest is the payload for a team answering its current question.
type SubmitAnswerRequest struct {
	Answer string `json:"answer" binding:"required,max=5000"`
}

// CarryForwardRequest is the payload for a judge setting a pre-round score
// offset. Only accepted while the round is LOCKED.
type CarryForwardRequest struct {
	TeamID int `json:"team_id" binding:"required"`
	Score  int `json:"score"`
}

// PenaltyRequest is the payload for a judge applying a manual score delta.
type PenaltyRequest struct {
	TeamID int    `json:"team_id" binding:"required"`
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}
