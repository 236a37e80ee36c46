package service

import "errors"

// Common service errors, mapped to response codes by the handlers.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSessionAlreadyActive = errors.New("another session is already active, please contact a judge to reset")

	ErrRoundNotActive        = errors.New("round is not active")
	ErrRoundLocked           = errors.New("round has already started")
	ErrInvalidTransition     = errors.New("invalid round state transition")
	ErrConfigLocked          = errors.New("round config is locked")
	ErrAlreadyCompleted      = errors.New("team already completed all questions")
	ErrEmptyAnswer           = errors.New("answer must not be empty")
	ErrReviewPending         = errors.New("a previous answer is still awaiting review")
	ErrProgressConflict      = errors.New("progress changed concurrently, retry")
	ErrNoTeams               = errors.New("no teams provisioned")
	ErrNoQuestionSets        = errors.New("no question sets available")
	ErrRankingFrozen         = errors.New("leaderboard already published")
	ErrUnrankedTeams         = errors.New("not every team has a manual rank")
	ErrLeaderboardNotVisible = errors.New("leaderboard is not published")
)
