package repository

import (
	"context"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles judge dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the judge dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalTeams, completedTeams, totalSubmissions, pendingReviews int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM teams),
			(SELECT COUNT(*) FROM team_progress WHERE completed = TRUE),
			(SELECT COUNT(*) FROM submissions),
			(SELECT COUNT(*) FROM submissions WHERE evaluated_at IS NULL)`,
	).Scan(&totalTeams, &completedTeams, &totalSubmissions, &pendingReviews)
	return
}

// GetRoundState retrieves the current round state.
func (r *DashboardRepository) GetRoundState(ctx context.Context) (model.RoundState, error) {
	var state model.RoundState
	err := r.pool.QueryRow(ctx, `SELECT round_state FROM round_config LIMIT 1`).Scan(&state)
	return state, err
}
