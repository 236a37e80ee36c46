package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/chakravyuh/quiz-backend/internal/middleware"
	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
	"github.com/chakravyuh/quiz-backend/internal/response"
	"github.com/chakravyuh/quiz-backend/internal/service"
	"github.com/chakravyuh/quiz-backend/internal/validator"
)

// JudgeHandler handles the judge console endpoints.
type JudgeHandler struct {
	reviewService      *service.ReviewService
	roundService       *service.RoundService
	leaderboardService *service.LeaderboardService
	dashboardService   *service.DashboardService
	authService        *service.AuthService
	teamRepo           *repository.TeamRepository
}

// NewJudgeHandler creates a new JudgeHandler.
func NewJudgeHandler(
	reviewService *service.ReviewService,
	roundService *service.RoundService,
	leaderboardService *service.LeaderboardService,
	dashboardService *service.DashboardService,
	authService *service.AuthService,
	teamRepo *repository.TeamRepository,
) *JudgeHandler {
	return &JudgeHandler{
		reviewService:      reviewService,
		roundService:       roundService,
		leaderboardService: leaderboardService,
		dashboardService:   dashboardService,
		authService:        authService,
		teamRepo:           teamRepo,
	}
}

// ListSubmissions godoc
// GET /api/v1/judge/submissions?pending=true
// Lists submissions with team and question context, newest first.
func (h *JudgeHandler) ListSubmissions(c *gin.Context) {
	pendingOnly := c.Query("pending") == "true"

	subs, err := h.reviewService.ListSubmissions(c.Request.Context(), pendingOnly)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// ScoreSubmission godoc
// POST /api/v1/judge/submissions/score
// Applies a judge's score to a pending free-text submission.
func (h *JudgeHandler) ScoreSubmission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.ScoreSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.reviewService.ScoreSubmission(c.Request.Context(), req.SubmissionID, req.Points, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrAlreadyEvaluated):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyEvaluated)
		case errors.Is(err, service.ErrPointsOutOfRange):
			response.Fail(c, http.StatusBadRequest, response.ErrPointsOutOfRange)
		case errors.Is(err, service.ErrProgressConflict):
			response.Fail(c, http.StatusConflict, response.ErrProgressConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetConfig godoc
// GET /api/v1/judge/config
func (h *JudgeHandler) GetConfig(c *gin.Context) {
	cfg, err := h.roundService.GetConfig(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"config": cfg})
}

// UpdateConfig godoc
// PUT /api/v1/judge/config
// Partially updates the point values. Rejected once the round starts.
func (h *JudgeHandler) UpdateConfig(c *gin.Context) {
	var req model.UpdateRoundConfigRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cfg, err := h.roundService.UpdateConfig(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrConfigLocked) {
			response.Fail(c, http.StatusConflict, response.ErrConfigLocked)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"config": cfg})
}

// StartRound godoc
// POST /api/v1/judge/round/start
func (h *JudgeHandler) StartRound(c *gin.Context) {
	if err := h.roundService.Start(c.Request.Context()); err != nil {
		failRound(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"round_state": model.RoundStateActive})
}

// CompleteRound godoc
// POST /api/v1/judge/round/complete
func (h *JudgeHandler) CompleteRound(c *gin.Context) {
	if err := h.roundService.Complete(c.Request.Context()); err != nil {
		failRound(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"round_state": model.RoundStateCompleted})
}

// ResetRound godoc
// POST /api/v1/judge/round/reset
// Wipes all progress, submissions and the leaderboard.
func (h *JudgeHandler) ResetRound(c *gin.Context) {
	if err := h.roundService.Reset(c.Request.Context()); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"round_state": model.RoundStateLocked})
}

// SetCarryForward godoc
// POST /api/v1/judge/carry-forward
// Records a pre-round score offset for a team. Only while LOCKED.
func (h *JudgeHandler) SetCarryForward(c *gin.Context) {
	var req model.CarryForwardRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.roundService.SetCarryForward(c.Request.Context(), req.TeamID, req.Score); err != nil {
		switch {
		case errors.Is(err, service.ErrRoundLocked):
			response.Fail(c, http.StatusConflict, response.ErrRoundLocked)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ApplyPenalty godoc
// POST /api/v1/judge/penalty
// Applies a manual score delta to a team.
func (h *JudgeHandler) ApplyPenalty(c *gin.Context) {
	var req model.PenaltyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	newScore, err := h.roundService.ApplyPenalty(c.Request.Context(), req.TeamID, req.Delta, req.Reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"total_score": newScore})
}

// GetLeaderboard godoc
// GET /api/v1/judge/leaderboard
// Full judge view: ranked first, unranked last by score.
func (h *JudgeHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.leaderboardService.JudgeView(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}

// AssignRank godoc
// POST /api/v1/judge/leaderboard/rank
func (h *JudgeHandler) AssignRank(c *gin.Context) {
	var req model.AssignRankRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.leaderboardService.AssignRank(c.Request.Context(), req.TeamID, req.Rank, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRankingFrozen):
			response.Fail(c, http.StatusConflict, response.ErrRankingFrozen)
		case errors.Is(err, repository.ErrNoEntry):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// PublishLeaderboard godoc
// POST /api/v1/judge/leaderboard/publish
func (h *JudgeHandler) PublishLeaderboard(c *gin.Context) {
	if err := h.leaderboardService.Publish(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTransition):
			response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)
		case errors.Is(err, service.ErrUnrankedTeams):
			response.Fail(c, http.StatusConflict, response.ErrUnrankedTeams)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"round_state": model.RoundStatePublished})
}

// GetDashboard godoc
// GET /api/v1/judge/dashboard
// Summary stats; failures degrade to zeroes instead of erroring.
func (h *JudgeHandler) GetDashboard(c *gin.Context) {
	response.Success(c, http.StatusOK, h.dashboardService.GetStats(c.Request.Context()))
}

// ListTeams godoc
// GET /api/v1/judge/teams
func (h *JudgeHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamRepo.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if teams == nil {
		teams = []model.Team{}
	}
	response.Success(c, http.StatusOK, gin.H{"teams": teams})
}

// ResetTeamSession godoc
// POST /api/v1/judge/teams/:id/session/reset
// Releases a team's single-device session so it can log in again.
func (h *JudgeHandler) ResetTeamSession(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.teamRepo.GetByID(c.Request.Context(), teamID); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if err := h.authService.ResetTeamSession(c.Request.Context(), teamID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// failRound maps round lifecycle errors to API error responses.
func failRound(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)
	case errors.Is(err, service.ErrNoTeams):
		response.Fail(c, http.StatusConflict, response.ErrNoTeams)
	case errors.Is(err, service.ErrNoQuestionSets):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestionSets)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
