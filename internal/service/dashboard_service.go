package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/cache"
	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
)

// DashboardStats is the judge dashboard summary.
type DashboardStats struct {
	RoundState       model.RoundState `json:"round_state"`
	TotalTeams       int              `json:"total_teams"`
	CompletedTeams   int              `json:"completed_teams"`
	TotalSubmissions int              `json:"total_submissions"`
	PendingReviews   int              `json:"pending_reviews"`
	Standings        []cache.Standing `json:"standings"`
}

// DashboardService aggregates the judge dashboard numbers. Failures
// degrade to zeroed stats rather than erroring the dashboard.
type DashboardService struct {
	dashboardRepo *repository.DashboardRepository
	standings     *cache.StandingsCache
	log           zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	dashboardRepo *repository.DashboardRepository,
	standings *cache.StandingsCache,
	log zerolog.Logger,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		standings:     standings,
		log:           log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetStats returns the dashboard summary plus the live top-10 standings.
func (s *DashboardService) GetStats(ctx context.Context) *DashboardStats {
	stats := &DashboardStats{Standings: []cache.Standing{}}

	state, err := s.dashboardRepo.GetRoundState(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read round state")
		stats.RoundState = model.RoundStateLocked
	} else {
		stats.RoundState = state
	}

	totalTeams, completedTeams, totalSubmissions, pendingReviews, err := s.dashboardRepo.GetSummaryCounts(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read dashboard counts")
	} else {
		stats.TotalTeams = totalTeams
		stats.CompletedTeams = completedTeams
		stats.TotalSubmissions = totalSubmissions
		stats.PendingReviews = pendingReviews
	}

	standings, err := s.standings.Top(ctx, 10)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read standings")
	} else if standings != nil {
		stats.Standings = standings
	}

	return stats
}
