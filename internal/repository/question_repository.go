package repository

import (
	"context"
	"encoding/json"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question-bank data access. Options live in a
// jsonb column owned exclusively by their question row.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, module_id, text, category, difficulty, active, options, created_at, updated_at`

func scanQuestion(row interface{ Scan(...any) error }) (*model.Question, error) {
	q := &model.Question{}
	var optionsRaw []byte
	if err := row.Scan(&q.ID, &q.ModuleID, &q.Text, &q.Category, &q.Difficulty, &q.Active, &optionsRaw, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(optionsRaw, &q.Options); err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID retrieves a question by ID.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id)
	return scanQuestion(row)
}

// ListByScope retrieves questions, optionally restricted to a module.
// Inactive questions are excluded unless includeInactive is set (admin
// callers with elevated privilege).
func (r *QuestionRepository) ListByScope(ctx context.Context, moduleID *uuid.UUID, includeInactive bool) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE 1=1`
	var args []interface{}

	if moduleID != nil {
		query += ` AND module_id = $1`
		args = append(args, *moduleID)
	}
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	optionsRaw, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (module_id, text, category, difficulty, active, options)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		q.ModuleID, q.Text, q.Category, q.Difficulty, q.Active, optionsRaw,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update modifies an existing question in place.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	optionsRaw, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE questions
		 SET text = $1, category = $2, difficulty = $3, active = $4, options = $5, updated_at = NOW()
		 WHERE id = $6`,
		q.Text, q.Category, q.Difficulty, q.Active, optionsRaw, q.ID,
	)
	return err
}

// Deactivate soft-deletes a question so existing snapshots stay gradable.
func (r *QuestionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE questions SET active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// CountActive returns the number of active questions in a scope.
func (r *QuestionRepository) CountActive(ctx context.Context, moduleID *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM questions WHERE active`
	var args []interface{}
	if moduleID != nil {
		query += ` AND module_id = $1`
		args = append(args, *moduleID)
	}
	var count int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}
