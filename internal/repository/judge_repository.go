package repository

import (
	"context"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JudgeRepository handles judge account data access.
type JudgeRepository struct {
	pool *pgxpool.Pool
}

// NewJudgeRepository creates a new JudgeRepository.
func NewJudgeRepository(pool *pgxpool.Pool) *JudgeRepository {
	return &JudgeRepository{pool: pool}
}

// GetByUsername retrieves a judge by username.
func (r *JudgeRepository) GetByUsername(ctx context.Context, username string) (*model.Judge, error) {
	j := &model.Judge{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM judges WHERE username = $1`,
		username,
	).Scan(&j.ID, &j.Username, &j.PasswordHash, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// GetByID retrieves a judge by id.
func (r *JudgeRepository) GetByID(ctx context.Context, id int) (*model.Judge, error) {
	j := &model.Judge{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM judges WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.Username, &j.PasswordHash, &j.CreatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Create inserts a new judge account.
func (r *JudgeRepository) Create(ctx context.Context, j *model.Judge) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO judges (username, password_hash) VALUES ($1, $2)
		 RETURNING id, created_at`,
		j.Username, j.PasswordHash,
	).Scan(&j.ID, &j.CreatedAt)
}
