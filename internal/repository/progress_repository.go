package repository

import (
	"context"
	"errors"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrStaleProgress is returned when a compare-and-swap update loses against
// a concurrent write for the same team.
var ErrStaleProgress = errors.New("team progress was modified concurrently")

// execer is the write surface shared by a pool and a transaction.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ProgressRepository handles team progress data access.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

const progressColumns = `team_id, position, total_score, wrong_count, set_number,
	carry_forward, completed, started_at, completed_at, version`

// Get retrieves a team's progress.
func (r *ProgressRepository) Get(ctx context.Context, teamID int) (*model.TeamProgress, error) {
	p := &model.TeamProgress{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+progressColumns+` FROM team_progress WHERE team_id = $1`, teamID,
	).Scan(&p.TeamID, &p.Position, &p.TotalScore, &p.WrongCount, &p.SetNumber,
		&p.CarryForward, &p.Completed, &p.StartedAt, &p.CompletedAt, &p.Version)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// InitForRound upserts a team's progress for round start: position 1,
// score reset to the carry-forward, counters zeroed. The carry-forward and
// set number survive the upsert so repeated starts stay idempotent.
func (r *ProgressRepository) InitForRound(ctx context.Context, teamID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO team_progress (team_id, position, total_score, wrong_count, started_at)
		 VALUES ($1, 1, 0, 0, NOW())
		 ON CONFLICT (team_id) DO UPDATE SET
		   position = 1,
		   total_score = team_progress.carry_forward,
		   wrong_count = 0,
		   completed = FALSE,
		   completed_at = NULL,
		   started_at = NOW(),
		   version = team_progress.version + 1`,
		teamID)
	return err
}

// UpdateCAS persists a mutated progress record, guarded by the version the
// caller read. Returns ErrStaleProgress when a concurrent writer won.
func (r *ProgressRepository) UpdateCAS(ctx context.Context, p *model.TeamProgress) error {
	return r.updateCAS(ctx, r.pool, p)
}

// UpdateCASTx is UpdateCAS inside a caller-owned transaction, so the
// progress write commits atomically with the caller's other statements.
func (r *ProgressRepository) UpdateCASTx(ctx context.Context, tx pgx.Tx, p *model.TeamProgress) error {
	return r.updateCAS(ctx, tx, p)
}

func (r *ProgressRepository) updateCAS(ctx context.Context, db execer, p *model.TeamProgress) error {
	tag, err := db.Exec(ctx,
		`UPDATE team_progress
		 SET position = $1, total_score = $2, wrong_count = $3, set_number = $4,
		     completed = $5, completed_at = $6, version = version + 1
		 WHERE team_id = $7 AND version = $8`,
		p.Position, p.TotalScore, p.WrongCount, p.SetNumber,
		p.Completed, p.CompletedAt, p.TeamID, p.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleProgress
	}
	p.Version++
	return nil
}

// SetCarryForward records a pre-round score offset for a team, creating
// the progress row if it does not exist yet.
func (r *ProgressRepository) SetCarryForward(ctx context.Context, teamID, score int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO team_progress (team_id, carry_forward)
		 VALUES ($1, $2)
		 ON CONFLICT (team_id) DO UPDATE SET carry_forward = EXCLUDED.carry_forward`,
		teamID, score)
	return err
}

// ApplyDelta adds a manual score delta to a team's running total.
func (r *ProgressRepository) ApplyDelta(ctx context.Context, teamID, delta int) (int, error) {
	var newScore int
	err := r.pool.QueryRow(ctx,
		`UPDATE team_progress
		 SET total_score = total_score + $1, version = version + 1
		 WHERE team_id = $2
		 RETURNING total_score`,
		delta, teamID,
	).Scan(&newScore)
	return newScore, err
}

// CountCompleted reports how many teams have finished all positions.
func (r *ProgressRepository) CountCompleted(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM team_progress WHERE completed = TRUE`).Scan(&n)
	return n, err
}

// DeleteAll discards every team's progress. Used on round reset.
func (r *ProgressRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM team_progress`)
	return err
}
