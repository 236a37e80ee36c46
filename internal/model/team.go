package model

import "time"

// Team represents a participating team. Teams are provisioned ahead of the
// round (seed/CLI) and are immutable afterwards.
type Team struct {
	ID          int       `json:"id"`
	TeamCode    string    `json:"team_code"`
	TeamName    string    `json:"team_name"`
	AccessToken string    `json:"-"`
	IsTest      bool      `json:"is_test"`
	CreatedAt   time.Time `json:"created_at"`
}

// TeamAccessRequest is the payload for a team exchanging its access token
// for a JWT.
type TeamAccessRequest struct {
	AccessToken string `json:"access_token" binding:"required,min=8,max=64"`
}
