package repository

import (
	"context"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles certification profile data access. All updates
// are partial: the attempt flow and the payment flow each touch only their
// own columns.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByCandidate retrieves a candidate's certification profile.
func (r *ProfileRepository) GetByCandidate(ctx context.Context, candidateID int) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx,
		`SELECT candidate_id, membership_fee_paid, payment_status, test_completed, test_score, certificate_issued, updated_at
		 FROM profiles WHERE candidate_id = $1`, candidateID,
	).Scan(&p.CandidateID, &p.MembershipFeePaid, &p.PaymentStatus, &p.TestCompleted, &p.TestScore, &p.CertificateIssued, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePayment updates only the payment columns.
func (r *ProfileRepository) UpdatePayment(ctx context.Context, candidateID int, status model.PaymentStatus, feePaid *bool) error {
	if feePaid != nil {
		_, err := r.pool.Exec(ctx,
			`UPDATE profiles SET payment_status = $1, membership_fee_paid = $2, updated_at = NOW()
			 WHERE candidate_id = $3`,
			status, *feePaid, candidateID)
		return err
	}
	_, err := r.pool.Exec(ctx,
		`UPDATE profiles SET payment_status = $1, updated_at = NOW() WHERE candidate_id = $2`,
		status, candidateID)
	return err
}
