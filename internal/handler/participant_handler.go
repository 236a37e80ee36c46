package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chakravyuh/quiz-backend/internal/middleware"
	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/response"
	"github.com/chakravyuh/quiz-backend/internal/service"
	"github.com/chakravyuh/quiz-backend/internal/validator"
)

// ParticipantHandler handles the team-facing question flow.
type ParticipantHandler struct {
	progressService    *service.ProgressService
	leaderboardService *service.LeaderboardService
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(
	progressService *service.ProgressService,
	leaderboardService *service.LeaderboardService,
) *ParticipantHandler {
	return &ParticipantHandler{
		progressService:    progressService,
		leaderboardService: leaderboardService,
	}
}

// GetCurrentQuestion godoc
// GET /api/v1/participant/question
// Returns the team's current question without the answer key.
func (h *ParticipantHandler) GetCurrentQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	resp, err := h.progressService.GetCurrentQuestion(c.Request.Context(), claims.UserID)
	if err != nil {
		failProgress(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// SubmitAnswer godoc
// POST /api/v1/participant/answer
// Submits an answer to the team's current question.
func (h *ParticipantHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.progressService.SubmitAnswer(c.Request.Context(), claims.UserID, req.Answer)
	if err != nil {
		failProgress(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetStatus godoc
// GET /api/v1/participant/status
// Returns the team's progress. Never includes the score.
func (h *ParticipantHandler) GetStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	status, err := h.progressService.GetStatus(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, status)
}

// GetLeaderboard godoc
// GET /api/v1/participant/leaderboard
// Returns the published leaderboard. 403 until publication.
func (h *ParticipantHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.leaderboardService.PublicView(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrLeaderboardNotVisible) {
			response.Fail(c, http.StatusForbidden, response.ErrLeaderboardNotReady)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"leaderboard": entries})
}

// failProgress maps progress flow errors to API error responses.
func failProgress(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRoundNotActive):
		response.Fail(c, http.StatusBadRequest, response.ErrRoundNotActive)
	case errors.Is(err, service.ErrAlreadyCompleted):
		response.Fail(c, http.StatusBadRequest, response.ErrAlreadyCompleted)
	case errors.Is(err, service.ErrEmptyAnswer):
		response.Fail(c, http.StatusBadRequest, response.ErrEmptyAnswer)
	case errors.Is(err, service.ErrReviewPending):
		response.Fail(c, http.StatusConflict, response.ErrReviewPending)
	case errors.Is(err, service.ErrProgressConflict):
		response.Fail(c, http.StatusConflict, response.ErrProgressConflict)
	case errors.Is(err, service.ErrNoQuestionSets):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestionSets)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
