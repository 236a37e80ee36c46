package repository

import (
	"context"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository handles the per-team question assignments
// (team_questions: which question sits at which position for a team).
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

// Replace atomically swaps a team's assignment for the given questions,
// positions 1..len(questionIDs). Any prior assignment is discarded.
func (r *AssignmentRepository) Replace(ctx context.Context, teamID int, questionIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM team_questions WHERE team_id = $1`, teamID); err != nil {
		return err
	}
	for i, qid := range questionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO team_questions (team_id, question_id, position) VALUES ($1, $2, $3)`,
			teamID, qid, i+1,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// QuestionAt retrieves the question assigned to a team at a position.
func (r *AssignmentRepository) QuestionAt(ctx context.Context, teamID, position int) (*model.Question, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT qb.id, qb.question_text, qb.question_kind, qb.options, qb.correct_label, qb.max_points, qb.set_id
		 FROM team_questions tq
		 JOIN question_bank qb ON tq.question_id = qb.id
		 WHERE tq.team_id = $1 AND tq.position = $2`,
		teamID, position)
	return scanQuestion(row)
}

// HasAssignment reports whether the team has any questions assigned.
func (r *AssignmentRepository) HasAssignment(ctx context.Context, teamID int) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM team_questions WHERE team_id = $1`, teamID,
	).Scan(&count)
	return count > 0, err
}

// DeleteAll discards every team's assignment. Used on round reset.
func (r *AssignmentRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM team_questions`)
	return err
}
