package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportOverview aggregates certification statistics for the admin dashboard.
type ReportOverview struct {
	TotalCandidates    int     `json:"total_candidates"`
	PaidCandidates     int     `json:"paid_candidates"`
	OngoingAttempts    int     `json:"ongoing_attempts"`
	FinalizedAttempts  int     `json:"finalized_attempts"`
	PassedAttempts     int     `json:"passed_attempts"`
	CertificatesIssued int     `json:"certificates_issued"`
	AverageScore       float64 `json:"average_score"`
}

// ReportRepository handles aggregate reporting queries.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// GetOverview computes the certification overview in a single query.
func (r *ReportRepository) GetOverview(ctx context.Context) (*ReportOverview, error) {
	o := &ReportOverview{}
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM candidates),
			(SELECT COUNT(*) FROM profiles WHERE payment_status = 'PAID'),
			(SELECT COUNT(*) FROM ongoing_attempts),
			(SELECT COUNT(*) FROM attempts),
			(SELECT COUNT(*) FROM attempts WHERE passed),
			(SELECT COUNT(*) FROM certificates),
			(SELECT COALESCE(AVG(score), 0) FROM attempts)
	`).Scan(&o.TotalCandidates, &o.PaidCandidates, &o.OngoingAttempts,
		&o.FinalizedAttempts, &o.PassedAttempts, &o.CertificatesIssued, &o.AverageScore)
	if err != nil {
		return nil, err
	}
	return o, nil
}
