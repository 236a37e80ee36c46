package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chakravyuh/quiz-backend/internal/middleware"
	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
	"github.com/chakravyuh/quiz-backend/internal/response"
	"github.com/chakravyuh/quiz-backend/internal/service"
	"github.com/chakravyuh/quiz-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	teamRepo    *repository.TeamRepository
	judgeRepo   *repository.JudgeRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	teamRepo *repository.TeamRepository,
	judgeRepo *repository.JudgeRepository,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		teamRepo:    teamRepo,
		judgeRepo:   judgeRepo,
	}
}

// TeamLogin godoc
// POST /api/v1/auth/team/login
// Exchanges a team access token for a JWT. Rejects if a session is active.
func (h *AuthHandler) TeamLogin(c *gin.Context) {
	var req model.TeamAccessRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	team, err := h.teamRepo.GetByAccessToken(c.Request.Context(), req.AccessToken)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidAccessToken)
		return
	}

	token, err := h.authService.GenerateTeamToken(c.Request.Context(), team.ID)
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyActive) {
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"team": gin.H{
			"id":        team.ID,
			"team_code": team.TeamCode,
			"team_name": team.TeamName,
		},
	})
}

// JudgeLogin godoc
// POST /api/v1/auth/judge/login
// Validates username + password and returns a JWT.
func (h *AuthHandler) JudgeLogin(c *gin.Context) {
	var req model.JudgeLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	judge, err := h.judgeRepo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(judge.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateJudgeToken(judge.ID, judge.Username)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"judge": gin.H{
			"id":       judge.ID,
			"username": judge.Username,
		},
	})
}

// GetTeamProfile godoc
// GET /api/v1/auth/team/me
// Returns the profile of the currently authenticated team.
func (h *AuthHandler) GetTeamProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	team, err := h.teamRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"team": gin.H{
			"id":        team.ID,
			"team_code": team.TeamCode,
			"team_name": team.TeamName,
		},
	})
}

// GetJudgeProfile godoc
// GET /api/v1/auth/judge/me
// Returns the profile of the currently authenticated judge.
func (h *AuthHandler) GetJudgeProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	judge, err := h.judgeRepo.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"judge": gin.H{
			"id":       judge.ID,
			"username": judge.Username,
		},
	})
}

// TeamLogout godoc
// POST /api/v1/auth/team/logout
// Releases the team's single-device session.
func (h *AuthHandler) TeamLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ResetTeamSession(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
