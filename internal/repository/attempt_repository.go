package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Attempt store errors.
var (
	ErrOngoingAttemptExists = errors.New("an ongoing attempt already exists for this candidate")
	ErrStaleAttemptVersion  = errors.New("ongoing attempt was modified concurrently")
)

// AttemptResult combines candidate data with a finalized attempt for
// administrative reporting.
type AttemptResult struct {
	AttemptID   uuid.UUID `json:"attempt_id"`
	CandidateID int       `json:"candidate_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	TestID      uuid.UUID `json:"test_id"`
	TestTitle   string    `json:"test_title"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	TimedOut    bool      `json:"timed_out"`
	StartedAt   time.Time `json:"started_at"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AttemptRepository handles ongoing and finalized attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const ongoingColumns = `id, candidate_id, test_id, questions, answers, current_index, remaining_seconds, started, version, created_at, updated_at`

func scanOngoing(row interface{ Scan(...any) error }) (*model.OngoingAttempt, error) {
	a := &model.OngoingAttempt{}
	var questionsRaw, answersRaw []byte
	err := row.Scan(&a.ID, &a.CandidateID, &a.TestID, &questionsRaw, &answersRaw,
		&a.CurrentIndex, &a.RemainingSeconds, &a.Started, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questionsRaw, &a.Questions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answersRaw, &a.Answers); err != nil {
		return nil, err
	}
	if a.Answers == nil {
		a.Answers = map[string]string{}
	}
	return a, nil
}

// CreateOngoing inserts a new ongoing attempt. The unique index on
// candidate_id enforces the one-at-a-time invariant; a duplicate insert
// fails with ErrOngoingAttemptExists.
func (r *AttemptRepository) CreateOngoing(ctx context.Context, a *model.OngoingAttempt) error {
	questionsRaw, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}
	answersRaw, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO ongoing_attempts (candidate_id, test_id, questions, answers, current_index, remaining_seconds, started, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		 RETURNING id, created_at, updated_at`,
		a.CandidateID, a.TestID, questionsRaw, answersRaw, a.CurrentIndex, a.RemainingSeconds, a.Started,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrOngoingAttemptExists
		}
		return err
	}
	return nil
}

// GetOngoingByCandidate retrieves the candidate's ongoing attempt.
// Returns pgx.ErrNoRows when none exists.
func (r *AttemptRepository) GetOngoingByCandidate(ctx context.Context, candidateID int) (*model.OngoingAttempt, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+ongoingColumns+` FROM ongoing_attempts WHERE candidate_id = $1`, candidateID)
	return scanOngoing(row)
}

// UpdateOngoing persists the attempt's mutable state, overwriting in place.
// The version check rejects updates raced by another tab: rows affected is
// zero when the caller's version is stale, surfaced as ErrStaleAttemptVersion.
func (r *AttemptRepository) UpdateOngoing(ctx context.Context, a *model.OngoingAttempt) error {
	answersRaw, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE ongoing_attempts
		 SET answers = $1, current_index = $2, remaining_seconds = $3, started = $4,
		     version = version + 1, updated_at = NOW()
		 WHERE id = $5 AND version = $6`,
		answersRaw, a.CurrentIndex, a.RemainingSeconds, a.Started, a.ID, a.Version,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleAttemptVersion
	}
	a.Version++
	return nil
}

// MergeAnswer upserts a single answer into the ongoing attempt without a
// version bump. Used by the autosave fast path where last-write-wins per
// question is the intended policy.
func (r *AttemptRepository) MergeAnswer(ctx context.Context, attemptID uuid.UUID, questionID, label string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE ongoing_attempts
		 SET answers = answers || jsonb_build_object($1::text, $2::text), updated_at = NOW()
		 WHERE id = $3`,
		questionID, label, attemptID,
	)
	return err
}

// DeleteOngoing removes the candidate's ongoing attempt.
func (r *AttemptRepository) DeleteOngoing(ctx context.Context, candidateID int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM ongoing_attempts WHERE candidate_id = $1`, candidateID)
	return err
}

// ListExpired returns ongoing attempts whose countdown ran out longer than
// grace ago, based on the last persisted remaining time.
func (r *AttemptRepository) ListExpired(ctx context.Context, grace time.Duration) ([]model.OngoingAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ongoingColumns+` FROM ongoing_attempts
		 WHERE started
		   AND updated_at + (remaining_seconds * INTERVAL '1 second') + $1::interval < NOW()`,
		grace)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.OngoingAttempt
	for rows.Next() {
		a, err := scanOngoing(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

// GetLatestByCandidate retrieves the candidate's most recent finalized attempt.
func (r *AttemptRepository) GetLatestByCandidate(ctx context.Context, candidateID int) (*model.Attempt, error) {
	a := &model.Attempt{}
	var answersRaw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, candidate_id, test_id, answers, score, correct_count, total_questions, passed, timed_out, started_at, submitted_at
		 FROM attempts WHERE candidate_id = $1
		 ORDER BY submitted_at DESC LIMIT 1`, candidateID,
	).Scan(&a.ID, &a.CandidateID, &a.TestID, &answersRaw, &a.Score, &a.CorrectCount,
		&a.TotalQuestions, &a.Passed, &a.TimedOut, &a.StartedAt, &a.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(answersRaw, &a.Answers); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByCandidate retrieves a candidate's finalized attempts, newest first.
func (r *AttemptRepository) ListByCandidate(ctx context.Context, candidateID int) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, candidate_id, test_id, score, correct_count, total_questions, passed, timed_out, started_at, submitted_at
		 FROM attempts WHERE candidate_id = $1
		 ORDER BY submitted_at DESC`, candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.Attempt
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.CandidateID, &a.TestID, &a.Score, &a.CorrectCount,
			&a.TotalQuestions, &a.Passed, &a.TimedOut, &a.StartedAt, &a.SubmittedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// ListResults retrieves finalized attempts for a test with candidate info,
// optional pass filter, and pagination.
func (r *AttemptRepository) ListResults(ctx context.Context, testID uuid.UUID, page, perPage int, passed *bool) ([]AttemptResult, int64, error) {
	offset := (page - 1) * perPage

	baseQuery := `
		FROM attempts a
		JOIN candidates c ON a.candidate_id = c.id
		JOIN tests t ON a.test_id = t.id
		WHERE a.test_id = $1
	`
	args := []any{testID}

	if passed != nil {
		args = append(args, *passed)
		baseQuery += ` AND a.passed = $2`
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT a.id, a.candidate_id, c.name, c.email, a.test_id, t.title,
		       a.score, a.passed, a.timed_out, a.started_at, a.submitted_at
		` + baseQuery + `
		ORDER BY a.submitted_at DESC
		LIMIT $` + fmt.Sprintf("%d", len(args)+1) + ` OFFSET $` + fmt.Sprintf("%d", len(args)+2)
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []AttemptResult
	for rows.Next() {
		var res AttemptResult
		if err := rows.Scan(&res.AttemptID, &res.CandidateID, &res.Name, &res.Email, &res.TestID,
			&res.TestTitle, &res.Score, &res.Passed, &res.TimedOut, &res.StartedAt, &res.SubmittedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}

	return results, total, rows.Err()
}
