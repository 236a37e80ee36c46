package repository

import (
	"context"
	"errors"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoEntry is returned when ranking a team that has no leaderboard entry.
var ErrNoEntry = errors.New("team has no leaderboard entry")

// LeaderboardRepository handles leaderboard entry data access.
type LeaderboardRepository struct {
	pool *pgxpool.Pool
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(pool *pgxpool.Pool) *LeaderboardRepository {
	return &LeaderboardRepository{pool: pool}
}

// Upsert records a team's final score, overwriting any prior entry so
// re-completions (after reassignment or manual resets) win.
func (r *LeaderboardRepository) Upsert(ctx context.Context, teamID, finalScore int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO leaderboard (team_id, final_score)
		 VALUES ($1, $2)
		 ON CONFLICT (team_id) DO UPDATE SET final_score = EXCLUDED.final_score, updated_at = NOW()`,
		teamID, finalScore)
	return err
}

// AssignRank sets a manual rank and optional notes for a team's entry.
func (r *LeaderboardRepository) AssignRank(ctx context.Context, teamID, rank int, notes string) error {
	var notesArg *string
	if notes != "" {
		notesArg = &notes
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE leaderboard SET manual_rank = $1, notes = $2, updated_at = NOW()
		 WHERE team_id = $3`,
		rank, notesArg, teamID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoEntry
	}
	return nil
}

// ListJudge retrieves all non-test entries for the judge view: manual rank
// ascending with unranked last, ties broken by final score descending.
func (r *LeaderboardRepository) ListJudge(ctx context.Context) ([]model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.team_id, t.team_code, t.team_name, l.final_score, l.manual_rank, l.notes, t.is_test, l.updated_at
		 FROM leaderboard l
		 JOIN teams t ON l.team_id = t.id
		 WHERE t.is_test = FALSE
		 ORDER BY l.manual_rank ASC NULLS LAST, l.final_score DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListPublic retrieves only ranked non-test entries, ordered by rank.
// Served to participants after publication.
func (r *LeaderboardRepository) ListPublic(ctx context.Context) ([]model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT l.team_id, t.team_code, t.team_name, l.final_score, l.manual_rank, l.notes, t.is_test, l.updated_at
		 FROM leaderboard l
		 JOIN teams t ON l.team_id = t.id
		 WHERE t.is_test = FALSE AND l.manual_rank IS NOT NULL
		 ORDER BY l.manual_rank ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// CountUnranked reports how many non-test teams still lack a manual rank,
// counting teams without a leaderboard entry at all.
func (r *LeaderboardRepository) CountUnranked(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM teams t
		 LEFT JOIN leaderboard l ON l.team_id = t.id
		 WHERE t.is_test = FALSE AND l.manual_rank IS NULL`,
	).Scan(&n)
	return n, err
}

// DeleteAll discards every leaderboard entry. Used on round reset.
func (r *LeaderboardRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM leaderboard`)
	return err
}

func collectEntries(rows pgx.Rows) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.TeamID, &e.TeamCode, &e.TeamName, &e.FinalScore,
			&e.ManualRank, &e.Notes, &e.IsTest, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
