package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/repository"
)

// CertificateService handles certificate lookups and public verification.
type CertificateService struct {
	certRepo *repository.CertificateRepository
}

// NewCertificateService creates a new CertificateService.
func NewCertificateService(certRepo *repository.CertificateRepository) *CertificateService {
	return &CertificateService{certRepo: certRepo}
}

// GetByCandidate retrieves a candidate's latest certificate.
func (s *CertificateService) GetByCandidate(ctx context.Context, candidateID int) (*model.Certificate, error) {
	return s.certRepo.GetByCandidate(ctx, candidateID)
}

// VerifyBySerial resolves a certificate by its public serial. Used by the
// unauthenticated verification endpoint.
func (s *CertificateService) VerifyBySerial(ctx context.Context, serial uuid.UUID) (*model.Certificate, error) {
	return s.certRepo.GetBySerial(ctx, serial)
}
