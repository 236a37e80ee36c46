package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrInvalidAccessToken ErrCode = "INVALID_ACCESS_TOKEN"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden           ErrCode = "FORBIDDEN"
	ErrParticipantOnly     ErrCode = "PARTICIPANT_ACCESS_ONLY"
	ErrJudgeOnly           ErrCode = "JUDGE_ACCESS_ONLY"
	ErrLeaderboardNotReady ErrCode = "LEADERBOARD_NOT_PUBLISHED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrEmptyAnswer    ErrCode = "EMPTY_ANSWER"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Round-specific ────────────────────────────────────────────────
	ErrRoundNotActive    ErrCode = "ROUND_NOT_ACTIVE"
	ErrRoundLocked       ErrCode = "ROUND_LOCKED"
	ErrConfigLocked      ErrCode = "CONFIG_LOCKED"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"
	ErrAlreadyCompleted  ErrCode = "ALREADY_COMPLETED"
	ErrAlreadyEvaluated  ErrCode = "ALREADY_EVALUATED"
	ErrReviewPending     ErrCode = "REVIEW_PENDING"
	ErrPointsOutOfRange  ErrCode = "POINTS_OUT_OF_RANGE"
	ErrProgressConflict  ErrCode = "PROGRESS_CONFLICT"
	ErrRankingFrozen     ErrCode = "RANKING_FROZEN"
	ErrUnrankedTeams     ErrCode = "UNRANKED_TEAMS"
	ErrNoTeams           ErrCode = "NO_TEAMS"
	ErrNoQuestionSets    ErrCode = "NO_QUESTION_SETS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrInvalidAccessToken:
		return "Invalid team access token."
	case ErrSessionActive:
		return "This team is already logged in on another device."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrParticipantOnly:
		return "This resource is restricted to participating teams."
	case ErrJudgeOnly:
		return "This resource is restricted to judges."
	case ErrLeaderboardNotReady:
		return "The leaderboard has not been published yet."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrEmptyAnswer:
		return "An answer is required."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Round-specific ────────────────────────────────────────────────
	case ErrRoundNotActive:
		return "The round is not active."
	case ErrRoundLocked:
		return "The round has already started; this change is no longer allowed."
	case ErrConfigLocked:
		return "Round configuration is locked."
	case ErrInvalidTransition:
		return "The round cannot move to that state from its current state."
	case ErrAlreadyCompleted:
		return "All questions are already completed."
	case ErrAlreadyEvaluated:
		return "This submission has already been evaluated."
	case ErrReviewPending:
		return "A previous answer is still awaiting review."
	case ErrPointsOutOfRange:
		return "Points exceed the maximum for this question."
	case ErrProgressConflict:
		return "Another submission for this team is in flight. Please retry."
	case ErrRankingFrozen:
		return "The leaderboard is published; ranking can no longer change."
	case ErrUnrankedTeams:
		return "Every team must be ranked before publishing."
	case ErrNoTeams:
		return "No teams are provisioned."
	case ErrNoQuestionSets:
		return "No question sets are available."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
