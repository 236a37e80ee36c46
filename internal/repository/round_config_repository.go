package repository

import (
	"context"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RoundConfigRepository handles the singleton round configuration row.
type RoundConfigRepository struct {
	pool *pgxpool.Pool
}

// NewRoundConfigRepository creates a new RoundConfigRepository.
func NewRoundConfigRepository(pool *pgxpool.Pool) *RoundConfigRepository {
	return &RoundConfigRepository{pool: pool}
}

// Get retrieves the round configuration.
func (r *RoundConfigRepository) Get(ctx context.Context) (*model.RoundConfig, error) {
	cfg := &model.RoundConfig{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, round_state, correct_points, free_text_max_points,
		        wrong_penalty, three_wrong_penalty, is_locked, created_at, updated_at
		 FROM round_config LIMIT 1`,
	).Scan(&cfg.ID, &cfg.State, &cfg.CorrectPoints, &cfg.FreeTextMaxPoints,
		&cfg.WrongPenalty, &cfg.ThreeWrongPenalty, &cfg.IsLocked, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdatePoints overwrites the point values. The caller is responsible for
// the lock check; the repository only persists.
func (r *RoundConfigRepository) UpdatePoints(ctx context.Context, cfg *model.RoundConfig) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE round_config
		 SET correct_points = $1, free_text_max_points = $2,
		     wrong_penalty = $3, three_wrong_penalty = $4, updated_at = NOW()
		 WHERE id = $5`,
		cfg.CorrectPoints, cfg.FreeTextMaxPoints, cfg.WrongPenalty, cfg.ThreeWrongPenalty, cfg.ID)
	return err
}

// SetState moves the round to a new state and updates the config lock flag.
func (r *RoundConfigRepository) SetState(ctx context.Context, state model.RoundState, locked bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE round_config SET round_state = $1, is_locked = $2, updated_at = NOW()`,
		state, locked)
	return err
}
