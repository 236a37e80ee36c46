package model

import "time"

// RoundState enumerates the round lifecycle states. The sequence is
// strictly forward-moving except for the explicit reset back to LOCKED.
type RoundState string

const (
	RoundStateLocked    RoundState = "LOCKED"
	RoundStateActive    RoundState = "ACTIVE"
	RoundStateCompleted RoundState = "COMPLETED"
	RoundStatePublished RoundState = "LEADERBOARD_PUBLISHED"
)

// RoundConfig is the process-wide round configuration. A single row holds
// the state and the point values; IsLocked freezes the point values once
// the round starts.
type RoundConfig struct {
	ID                int        `json:"id"`
	State             RoundState `json:"round_state"`
	CorrectPoints     int        `json:"correct_points"`
	FreeTextMaxPoints int        `json:"free_text_max_points"`
	WrongPenalty      int        `json:"wrong_penalty"`
	ThreeWrongPenalty int        `json:"three_wrong_penalty"`
	IsLocked          bool       `json:"is_locked"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// UpdateRoundConfigRequest is the payload for judges tuning point values.
// Rejected once the config is locked. Penalties are expected to be
// negative; the server stores them as provided.
type UpdateRoundConfigRequest struct {
	CorrectPoints     *int `json:"correct_points" binding:"omitempty,min=0,max=1000"`
	FreeTextMaxPoints *int `json:"free_text_max_points" binding:"omitempty,min=0,max=1000"`
	WrongPenalty      *int `json:"wrong_penalty" binding:"omitempty,min=-1000,max=0"`
	ThreeWrongPenalty *int `json:"three_wrong_penalty" binding:"omitempty,min=-1000,max=0"`
}
