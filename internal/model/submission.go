package model

import "time"

// Submission records one answer attempt. For single-choice questions it is
// evaluated synchronously at creation; for free-text it stays pending
// (IsCorrect nil, EvaluatedAt nil) until a judge scores it.
type Submission struct {
	ID            int        `json:"id"`
	TeamID        int        `json:"team_id"`
	QuestionID    int        `json:"question_id"`
	Position      int        `json:"position"`
	AnswerText    string     `json:"answer_text"`
	IsCorrect     *bool      `json:"is_correct"`
	PointsAwarded int        `json:"points_awarded"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	EvaluatedAt   *time.Time `json:"evaluated_at,omitempty"`
	EvaluatedBy   *int       `json:"evaluated_by,omitempty"`
}

// PendingSubmission is a submission joined with its team and question
// context, as shown to judges.
type PendingSubmission struct {
	Submission
	TeamCode     string       `json:"team_code"`
	TeamName     string       `json:"team_name"`
	QuestionText string       `json:"question_text"`
	Kind         QuestionKind `json:"question_kind"`
	CorrectLabel string       `json:"correct_label,omitempty"`
	MaxPoints    int          `json:"max_points"`
}

// ScoreSubmissionRequest is the payload for a judge scoring a pending
// free-text submission. Points may be negative.
type ScoreSubmissionRequest struct {
	SubmissionID int `json:"submission_id" binding:"required"`
	Points       int `json:"points"`
}
