package model

import "time"

// LeaderboardEntry is one team's final standing. Created (or overwritten)
// when the team completes all positions; the rank is assigned manually by
// a judge before publication.
type LeaderboardEntry struct {
	TeamID     int       `json:"team_id"`
	TeamCode   string    `json:"team_code"`
	TeamName   string    `json:"team_name"`
	FinalScore int       `json:"final_score"`
	ManualRank *int      `json:"manual_rank"`
	Notes      *string   `json:"notes,omitempty"`
	IsTest     bool      `json:"is_test,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AssignRankRequest is the payload for a judge ranking a leaderboard entry.
type AssignRankRequest struct {
	TeamID int    `json:"team_id" binding:"required"`
	Rank   int    `json:"rank" binding:"required,min=1"`
	Notes  string `json:"notes" binding:"omitempty,max=1000"`
}
