package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/repository"
)

// QuestionService handles certification module and question bank logic.
type QuestionService struct {
	moduleRepo   *repository.ModuleRepository
	questionRepo *repository.QuestionRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(moduleRepo *repository.ModuleRepository, questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{moduleRepo: moduleRepo, questionRepo: questionRepo}
}

// ListModules retrieves all certification modules.
func (s *QuestionService) ListModules(ctx context.Context) ([]model.CertModule, error) {
	modules, err := s.moduleRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if modules == nil {
		modules = []model.CertModule{}
	}
	return modules, nil
}

// GetModule retrieves a specific certification module.
func (s *QuestionService) GetModule(ctx context.Context, id uuid.UUID) (*model.CertModule, error) {
	return s.moduleRepo.GetByID(ctx, id)
}

// CreateModule creates a new certification module.
func (s *QuestionService) CreateModule(ctx context.Context, m *model.CertModule) error {
	return s.moduleRepo.Create(ctx, m)
}

// UpdateModule updates a certification module.
func (s *QuestionService) UpdateModule(ctx context.Context, m *model.CertModule) error {
	return s.moduleRepo.Update(ctx, m)
}

// DeleteModule deletes a certification module.
func (s *QuestionService) DeleteModule(ctx context.Context, id uuid.UUID) error {
	return s.moduleRepo.Delete(ctx, id)
}

// ListQuestions retrieves questions, optionally scoped to a module.
// Inactive questions are only included when includeInactive is set; the
// handler grants that based on the caller's write permission.
func (s *QuestionService) ListQuestions(ctx context.Context, moduleID *uuid.UUID, includeInactive bool) ([]model.Question, error) {
	questions, err := s.questionRepo.ListByScope(ctx, moduleID, includeInactive)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// GetQuestion retrieves a single question by ID.
func (s *QuestionService) GetQuestion(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// CreateQuestion validates the option set and inserts the question.
func (s *QuestionService) CreateQuestion(ctx context.Context, q *model.Question) error {
	if err := model.ValidateOptions(q.Options); err != nil {
		return err
	}
	return s.questionRepo.Create(ctx, q)
}

// UpdateQuestion validates the option set and updates the question.
// Attempt snapshots taken before the update keep their frozen copy.
func (s *QuestionService) UpdateQuestion(ctx context.Context, q *model.Question) error {
	if err := model.ValidateOptions(q.Options); err != nil {
		return err
	}
	return s.questionRepo.Update(ctx, q)
}

// DeactivateQuestion soft-deletes a question so future attempts exclude it.
func (s *QuestionService) DeactivateQuestion(ctx context.Context, id uuid.UUID) error {
	return s.questionRepo.Deactivate(ctx, id)
}

// CountActiveQuestions returns the number of active questions in scope.
func (s *QuestionService) CountActiveQuestions(ctx context.Context, moduleID *uuid.UUID) (int, error) {
	return s.questionRepo.CountActive(ctx, moduleID)
}
