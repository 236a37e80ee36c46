package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/cache"
	"github.com/chakravyuh/quiz-backend/internal/config"
	"github.com/chakravyuh/quiz-backend/internal/database"
	"github.com/chakravyuh/quiz-backend/internal/handler"
	"github.com/chakravyuh/quiz-backend/internal/logger"
	"github.com/chakravyuh/quiz-backend/internal/repository"
	"github.com/chakravyuh/quiz-backend/internal/router"
	"github.com/chakravyuh/quiz-backend/internal/service"
	"github.com/chakravyuh/quiz-backend/internal/validator"
	"github.com/chakravyuh/quiz-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Chakravyuh Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	teamRepo := repository.NewTeamRepository(pool)
	judgeRepo := repository.NewJudgeRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	roundRepo := repository.NewRoundConfigRepository(pool)
	leaderboardRepo := repository.NewLeaderboardRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	standings := cache.NewStandingsCache(rdb, log)
	authService := service.NewAuthService(cfg, rdb)
	progressService := service.NewProgressService(
		progressRepo, assignmentRepo, questionRepo, submissionRepo,
		leaderboardRepo, roundRepo, teamRepo, standings, rdb, log,
	)
	reviewService := service.NewReviewService(
		pool, submissionRepo, progressRepo, questionRepo, leaderboardRepo, progressService, log,
	)
	roundService := service.NewRoundService(
		roundRepo, teamRepo, progressRepo, assignmentRepo,
		submissionRepo, leaderboardRepo, progressService, standings, log,
	)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, roundRepo, log)
	dashboardService := service.NewDashboardService(dashboardRepo, standings, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, teamRepo, judgeRepo),
		Participant: handler.NewParticipantHandler(progressService, leaderboardService),
		Judge: handler.NewJudgeHandler(
			reviewService, roundService, leaderboardService,
			dashboardService, authService, teamRepo,
		),
		WS: handler.NewWSHandler(rdb, standings, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	timingWorker := worker.NewTimingWorker(pool, rdb, log)
	go timingWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for queues to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
