package repository

import (
	"context"
	"encoding/json"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, question_text, question_kind, options, correct_label, max_points, set_id`

func scanQuestion(row pgx.Row) (*model.Question, error) {
	q := &model.Question{}
	var options []byte
	var correctLabel *string
	if err := row.Scan(&q.ID, &q.QuestionText, &q.Kind, &options, &correctLabel, &q.MaxPoints, &q.SetID); err != nil {
		return nil, err
	}
	if correctLabel != nil {
		q.CorrectLabel = *correctLabel
	}
	if len(options) > 0 {
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, err
		}
	}
	return q, nil
}

// GetByID retrieves a single question.
func (r *QuestionRepository) GetByID(ctx context.Context, id int) (*model.Question, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM question_bank WHERE id = $1`, id)
	return scanQuestion(row)
}

// ListBySet retrieves all questions of a set, ordered by ascending id so a
// given set always yields the same sequence.
func (r *QuestionRepository) ListBySet(ctx context.Context, setID int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM question_bank WHERE set_id = $1 ORDER BY id`, setID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// RandomSample draws n random questions from the entire bank. This is the
// fallback path for short sets; unlike ListBySet it is not deterministic.
func (r *QuestionRepository) RandomSample(ctx context.Context, n int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM question_bank ORDER BY RANDOM() LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// ListSetIDs retrieves the distinct set ids present in the bank.
func (r *QuestionRepository) ListSetIDs(ctx context.Context) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT set_id FROM question_bank ORDER BY set_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Create inserts a new question. Used by provisioning tooling only.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	var options []byte
	var err error
	if len(q.Options) > 0 {
		options, err = json.Marshal(q.Options)
		if err != nil {
			return err
		}
	}
	var correctLabel *string
	if q.CorrectLabel != "" {
		correctLabel = &q.CorrectLabel
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO question_bank (question_text, question_kind, options, correct_label, max_points, set_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		q.QuestionText, q.Kind, options, correctLabel, q.MaxPoints, q.SetID,
	).Scan(&q.ID)
}

func collectQuestions(rows pgx.Rows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}
