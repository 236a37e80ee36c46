package model

import "time"

// Judge represents a reviewer with elevated privileges.
type Judge struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// JudgeLoginRequest is the payload for judge authentication.
type JudgeLoginRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}
