package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/chakravyuh/quiz-backend/internal/config"
	"github.com/chakravyuh/quiz-backend/internal/handler"
	"github.com/chakravyuh/quiz-backend/internal/middleware"
	"github.com/chakravyuh/quiz-backend/internal/response"
	"github.com/chakravyuh/quiz-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Participant *handler.ParticipantHandler
	Judge       *handler.JudgeHandler
	WS          *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Tighter limiter for answer submissions: teams share venue WiFi, so
	// the budget is generous per IP but still bounds brute-forcing labels.
	answerLimiter := middleware.NewRateLimiter(120, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/team/login", handlers.Auth.TeamLogin)
		auth.POST("/judge/login", handlers.Auth.JudgeLogin)

		// Authenticated profile routes
		auth.POST("/team/logout", middleware.RequireTeamJWT(authService), handlers.Auth.TeamLogout)
		auth.GET("/team/me", middleware.RequireTeamJWT(authService), handlers.Auth.GetTeamProfile)
		auth.GET("/judge/me", middleware.RequireJudgeJWT(authService), handlers.Auth.GetJudgeProfile)
	}

	// ─── 2. Participant Group (JWT + Single Device) ────────────────────
	participantAPI := router.Group("/api/v1/participant")
	participantAPI.Use(
		middleware.RequireTeamJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		participantAPI.GET("/question", handlers.Participant.GetCurrentQuestion)
		participantAPI.POST("/answer", answerLimiter.Middleware(), handlers.Participant.SubmitAnswer)
		participantAPI.GET("/status", handlers.Participant.GetStatus)
		participantAPI.GET("/leaderboard",
			middleware.CacheControl(30),
			handlers.Participant.GetLeaderboard,
		)
	}

	// ─── 3. WebSocket Group (Judge WS Auth) ────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireJudgeWSAuth(authService))
	{
		ws.GET("/judge/feed", handlers.WS.JudgeFeedStream)
	}

	// ─── 4. Judge Group (JWT) ──────────────────────────────────────────
	judgeAPI := router.Group("/api/v1/judge")
	judgeAPI.Use(middleware.RequireJudgeJWT(authService))
	{
		// Review queue
		judgeAPI.GET("/submissions", handlers.Judge.ListSubmissions)
		judgeAPI.POST("/submissions/score", handlers.Judge.ScoreSubmission)

		// Round lifecycle and config
		judgeAPI.GET("/config", handlers.Judge.GetConfig)
		judgeAPI.PUT("/config", handlers.Judge.UpdateConfig)
		judgeAPI.POST("/round/start", handlers.Judge.StartRound)
		judgeAPI.POST("/round/complete", handlers.Judge.CompleteRound)
		judgeAPI.POST("/round/reset", handlers.Judge.ResetRound)

		// Manual score adjustments
		judgeAPI.POST("/carry-forward", handlers.Judge.SetCarryForward)
		judgeAPI.POST("/penalty", handlers.Judge.ApplyPenalty)

		// Leaderboard
		judgeAPI.GET("/leaderboard", handlers.Judge.GetLeaderboard)
		judgeAPI.POST("/leaderboard/rank", handlers.Judge.AssignRank)
		judgeAPI.POST("/leaderboard/publish", handlers.Judge.PublishLeaderboard)

		// Dashboard and team administration
		judgeAPI.GET("/dashboard", handlers.Judge.GetDashboard)
		judgeAPI.GET("/teams", handlers.Judge.ListTeams)
		judgeAPI.POST("/teams/:id/session/reset", handlers.Judge.ResetTeamSession)
	}

	return router
}
