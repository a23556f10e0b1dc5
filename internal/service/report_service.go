package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/certpath/certpath-backend/internal/repository"
	"github.com/certpath/certpath-backend/internal/response"
)

// ReportService aggregates program-wide statistics for the admin dashboard.
type ReportService struct {
	reportRepo  *repository.ReportRepository
	attemptRepo *repository.AttemptRepository
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo *repository.ReportRepository, attemptRepo *repository.AttemptRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo, attemptRepo: attemptRepo}
}

// Overview returns headline counts across candidates, attempts, and
// certificates.
func (s *ReportService) Overview(ctx context.Context) (*repository.ReportOverview, error) {
	return s.reportRepo.GetOverview(ctx)
}

// TestResults returns paginated finalized attempts for a test, with an
// optional pass filter.
func (s *ReportService) TestResults(ctx context.Context, testID uuid.UUID, page, perPage int, passed *bool) ([]repository.AttemptResult, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	results, total, err := s.attemptRepo.ListResults(ctx, testID, page, perPage, passed)
	if err != nil {
		return nil, nil, err
	}

	if results == nil {
		results = []repository.AttemptResult{}
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	}

	return results, pagination, nil
}
