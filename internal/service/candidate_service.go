package service

import (
	"context"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/repository"
	"github.com/certpath/certpath-backend/internal/response"
)

// CandidateService handles candidate account and profile business logic.
type CandidateService struct {
	candidateRepo *repository.CandidateRepository
	profileRepo   *repository.ProfileRepository
	authService   *AuthService
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(
	candidateRepo *repository.CandidateRepository,
	profileRepo *repository.ProfileRepository,
	authService *AuthService,
) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		profileRepo:   profileRepo,
		authService:   authService,
	}
}

// GetByEmail retrieves a candidate by their email address.
func (s *CandidateService) GetByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	return s.candidateRepo.GetByEmail(ctx, email)
}

// GetByID retrieves a candidate by ID.
func (s *CandidateService) GetByID(ctx context.Context, id int) (*model.Candidate, error) {
	return s.candidateRepo.GetByID(ctx, id)
}

// List retrieves candidates with pagination and optional name/email search.
func (s *CandidateService) List(ctx context.Context, search string, page, perPage int) ([]model.Candidate, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	candidates, total, err := s.candidateRepo.ListPaginated(ctx, search, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if candidates == nil {
		candidates = []model.Candidate{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return candidates, pagination, nil
}

// Register creates a new candidate with a hashed password and an empty
// certification profile.
func (s *CandidateService) Register(ctx context.Context, candidate *model.Candidate) error {
	hashed, err := s.authService.HashPassword(candidate.PasswordHash)
	if err != nil {
		return err
	}
	candidate.PasswordHash = hashed
	return s.candidateRepo.Create(ctx, candidate)
}

// Update modifies a candidate's details. Updates password if provided.
func (s *CandidateService) Update(ctx context.Context, candidate *model.Candidate, updatePassword bool) error {
	if err := s.candidateRepo.Update(ctx, candidate); err != nil {
		return err
	}

	if updatePassword && candidate.PasswordHash != "" {
		hashed, err := s.authService.HashPassword(candidate.PasswordHash)
		if err != nil {
			return err
		}
		return s.candidateRepo.UpdatePassword(ctx, candidate.ID, hashed)
	}

	return nil
}

// Delete removes a candidate by ID.
func (s *CandidateService) Delete(ctx context.Context, id int) error {
	return s.candidateRepo.Delete(ctx, id)
}

// GetProfile retrieves a candidate's certification profile.
func (s *CandidateService) GetProfile(ctx context.Context, candidateID int) (*model.Profile, error) {
	return s.profileRepo.GetByCandidate(ctx, candidateID)
}

// RecordPayment updates a candidate's payment status. The fee flag only
// moves when explicitly provided.
func (s *CandidateService) RecordPayment(ctx context.Context, candidateID int, status model.PaymentStatus, feePaid *bool) (*model.Profile, error) {
	if err := s.profileRepo.UpdatePayment(ctx, candidateID, status, feePaid); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByCandidate(ctx, candidateID)
}
