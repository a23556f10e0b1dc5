package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateEmail = errors.New("candidate with this email already exists")

// CandidateRepository handles candidate data access.
type CandidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository creates a new CandidateRepository.
func NewCandidateRepository(pool *pgxpool.Pool) *CandidateRepository {
	return &CandidateRepository{pool: pool}
}

// GetByID retrieves a candidate by ID.
func (r *CandidateRepository) GetByID(ctx context.Context, id int) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM candidates WHERE id = $1`, id,
	).Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByEmail retrieves a candidate by their unique email.
func (r *CandidateRepository) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	c := &model.Candidate{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at, updated_at
		 FROM candidates WHERE email = $1`, email,
	).Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListPaginated retrieves candidates with pagination and an optional
// case-insensitive name/email search.
func (r *CandidateRepository) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.Candidate, int, error) {
	countQuery := `SELECT COUNT(*) FROM candidates`
	var countArgs []interface{}
	if search != "" {
		countQuery += ` WHERE name ILIKE $1 OR email ILIKE $1`
		countArgs = append(countArgs, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, email, name, password_hash, created_at, updated_at FROM candidates`
	var args []interface{}
	argIdx := 1

	if search != "" {
		query += ` WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
		argIdx++
	}

	query += ` ORDER BY name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var candidates []model.Candidate
	for rows.Next() {
		var c model.Candidate
		if err := rows.Scan(&c.ID, &c.Email, &c.Name, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		candidates = append(candidates, c)
	}
	return candidates, total, rows.Err()
}

// Create inserts a new candidate together with an empty certification
// profile in one transaction.
func (r *CandidateRepository) Create(ctx context.Context, c *model.Candidate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO candidates (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Email, c.Name, c.PasswordHash,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (candidate_id, payment_status) VALUES ($1, $2)`,
		c.ID, model.PaymentStatusUnpaid,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update modifies a candidate's basic info (excluding password).
func (r *CandidateRepository) Update(ctx context.Context, c *model.Candidate) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE candidates SET email = $1, name = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		c.Email, c.Name, c.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UpdatePassword updates a candidate's password hash.
func (r *CandidateRepository) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE candidates SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		passwordHash, id,
	)
	return err
}

// Delete removes a candidate by ID.
func (r *CandidateRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	return err
}
