package repository

import (
	"context"
	"errors"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrAlreadyEvaluated is returned when a submission is scored a second time.
var ErrAlreadyEvaluated = errors.New("submission already evaluated")

// SubmissionRepository handles submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a submission. Auto-graded submissions come in with
// IsCorrect and EvaluatedAt set; pending free-text ones leave both nil.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions
		   (team_id, question_id, position, answer_text, is_correct, points_awarded, evaluated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, submitted_at`,
		s.TeamID, s.QuestionID, s.Position, s.AnswerText, s.IsCorrect, s.PointsAwarded, s.EvaluatedAt,
	).Scan(&s.ID, &s.SubmittedAt)
}

// GetByID retrieves a single submission.
func (r *SubmissionRepository) GetByID(ctx context.Context, id int) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, team_id, question_id, position, answer_text, is_correct,
		        points_awarded, submitted_at, evaluated_at, evaluated_by
		 FROM submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.TeamID, &s.QuestionID, &s.Position, &s.AnswerText, &s.IsCorrect,
		&s.PointsAwarded, &s.SubmittedAt, &s.EvaluatedAt, &s.EvaluatedBy)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List retrieves all submissions with team and question context, newest
// first. Judges use this to review answers; the correct label is included.
func (r *SubmissionRepository) List(ctx context.Context, pendingOnly bool) ([]model.PendingSubmission, error) {
	query := `
		SELECT s.id, s.team_id, s.question_id, s.position, s.answer_text, s.is_correct,
		       s.points_awarded, s.submitted_at, s.evaluated_at, s.evaluated_by,
		       t.team_code, t.team_name,
		       qb.question_text, qb.question_kind, COALESCE(qb.correct_label, ''), qb.max_points
		FROM submissions s
		JOIN teams t ON s.team_id = t.id
		JOIN question_bank qb ON s.question_id = qb.id`
	if pendingOnly {
		query += ` WHERE s.evaluated_at IS NULL`
	}
	query += ` ORDER BY s.submitted_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.PendingSubmission
	for rows.Next() {
		var s model.PendingSubmission
		if err := rows.Scan(&s.ID, &s.TeamID, &s.QuestionID, &s.Position, &s.AnswerText, &s.IsCorrect,
			&s.PointsAwarded, &s.SubmittedAt, &s.EvaluatedAt, &s.EvaluatedBy,
			&s.TeamCode, &s.TeamName,
			&s.QuestionText, &s.Kind, &s.CorrectLabel, &s.MaxPoints); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// MarkEvaluated stamps a submission with its review outcome, inside the
// caller's transaction so the stamp and the progress advance commit or roll
// back together. The evaluated_at IS NULL guard makes double evaluation
// impossible even under concurrent reviewers; the second writer gets
// ErrAlreadyEvaluated.
func (r *SubmissionRepository) MarkEvaluated(ctx context.Context, tx pgx.Tx, id, points, judgeID int) error {
	tag, err := tx.Exec(ctx,
		`UPDATE submissions
		 SET points_awarded = $1, evaluated_at = NOW(), evaluated_by = $2
		 WHERE id = $3 AND evaluated_at IS NULL`,
		points, judgeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyEvaluated
	}
	return nil
}

// HasPendingAt reports whether the team has an unevaluated submission at
// the given position. Participants cannot proceed while one exists.
func (r *SubmissionRepository) HasPendingAt(ctx context.Context, teamID, position int) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions
		 WHERE team_id = $1 AND position = $2 AND evaluated_at IS NULL`,
		teamID, position,
	).Scan(&count)
	return count > 0, err
}

// Count reports the total number of submissions.
func (r *SubmissionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM submissions`).Scan(&n)
	return n, err
}

// CountPending reports the number of submissions awaiting review.
func (r *SubmissionRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM submissions WHERE evaluated_at IS NULL`).Scan(&n)
	return n, err
}

// DeleteAll discards every submission. Used on round reset.
func (r *SubmissionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM submissions`)
	return err
}
