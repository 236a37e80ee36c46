package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventPong     Event = "pong"
	EventFeed     Event = "feed"
	EventSnapshot Event = "snapshot"
)

// FeedItem is one live event pushed to connected judges: a submission,
// a review, a completion, or a manual score change.
type FeedItem struct {
	TeamID     int       `json:"team_id"`
	TeamCode   string    `json:"team_code"`
	Position   int       `json:"position"`
	Outcome    string    `json:"outcome"`
	IsCorrect  *bool     `json:"is_correct,omitempty"`
	ScoreDelta int       `json:"score_delta"`
	TotalScore int       `json:"total_score"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FeedResponse wraps a FeedItem for the wire.
type FeedResponse struct {
	Event Event    `json:"event"`
	Item  FeedItem `json:"item"`
}

// SnapshotStanding is one row of the live standings snapshot sent on connect.
type SnapshotStanding struct {
	TeamID int `json:"team_id"`
	Score  int `json:"score"`
}

// SnapshotResponse is sent once when a judge connects.
type SnapshotResponse struct {
	Event     Event              `json:"event"`
	Standings []SnapshotStanding `json:"standings"`
}

type PongResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}
