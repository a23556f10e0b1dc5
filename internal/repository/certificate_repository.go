package repository

import (
	"context"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CertificateRepository handles issued-certificate data access. Inserts
// happen only inside the finalize transaction owned by the attempt service.
type CertificateRepository struct {
	pool *pgxpool.Pool
}

// NewCertificateRepository creates a new CertificateRepository.
func NewCertificateRepository(pool *pgxpool.Pool) *CertificateRepository {
	return &CertificateRepository{pool: pool}
}

// GetByCandidate retrieves the candidate's most recent certificate.
func (r *CertificateRepository) GetByCandidate(ctx context.Context, candidateID int) (*model.Certificate, error) {
	c := &model.Certificate{}
	err := r.pool.QueryRow(ctx,
		`SELECT serial, candidate_id, attempt_id, test_id, score, issued_at
		 FROM certificates WHERE candidate_id = $1
		 ORDER BY issued_at DESC LIMIT 1`, candidateID,
	).Scan(&c.Serial, &c.CandidateID, &c.AttemptID, &c.TestID, &c.Score, &c.IssuedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetBySerial retrieves a certificate by its serial, for public verification.
func (r *CertificateRepository) GetBySerial(ctx context.Context, serial uuid.UUID) (*model.Certificate, error) {
	c := &model.Certificate{}
	err := r.pool.QueryRow(ctx,
		`SELECT serial, candidate_id, attempt_id, test_id, score, issued_at
		 FROM certificates WHERE serial = $1`, serial,
	).Scan(&c.Serial, &c.CandidateID, &c.AttemptID, &c.TestID, &c.Score, &c.IssuedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}
