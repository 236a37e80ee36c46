package repository

import (
	"context"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TeamRepository handles team data access.
type TeamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository creates a new TeamRepository.
func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

// GetByID retrieves a team by its numeric id.
func (r *TeamRepository) GetByID(ctx context.Context, id int) (*model.Team, error) {
	t := &model.Team{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, team_code, team_name, access_token, is_test, created_at
		 FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.TeamCode, &t.TeamName, &t.AccessToken, &t.IsTest, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetByAccessToken retrieves a team by its secret access token.
func (r *TeamRepository) GetByAccessToken(ctx context.Context, token string) (*model.Team, error) {
	t := &model.Team{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, team_code, team_name, access_token, is_test, created_at
		 FROM teams WHERE access_token = $1`, token,
	).Scan(&t.ID, &t.TeamCode, &t.TeamName, &t.AccessToken, &t.IsTest, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List retrieves all provisioned teams ordered by id.
func (r *TeamRepository) List(ctx context.Context) ([]model.Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, team_code, team_name, access_token, is_test, created_at
		 FROM teams ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.TeamCode, &t.TeamName, &t.AccessToken, &t.IsTest, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Create inserts a new team. Used by provisioning tooling only.
func (r *TeamRepository) Create(ctx context.Context, t *model.Team) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO teams (team_code, team_name, access_token, is_test)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		t.TeamCode, t.TeamName, t.AccessToken, t.IsTest,
	).Scan(&t.ID, &t.CreatedAt)
}
