package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/certpath/certpath-backend/internal/config"
	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/repository"
	"github.com/certpath/certpath-backend/internal/response"
)

// Domain errors.
var (
	ErrNoQuestions      = errors.New("not enough active questions to cover the test")
	ErrTestNotDraft     = errors.New("test status is not DRAFT")
	ErrTestNotPublished = errors.New("test status is not PUBLISHED")
)

// TestService handles test definition business logic and Redis caching.
type TestService struct {
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *TestService {
	return &TestService{
		testRepo:     testRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "test_service").Logger(),
	}
}

// GetByID retrieves a test by its UUID.
func (s *TestService) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	return s.testRepo.GetByID(ctx, id)
}

// List retrieves tests with pagination.
func (s *TestService) List(ctx context.Context, page, perPage int) ([]model.Test, *response.Pagination, error) {
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

	tests, total, err := s.testRepo.ListPaginated(ctx, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if tests == nil {
		tests = []model.Test{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return tests, pagination, nil
}

// ListPublished retrieves the catalog of published tests for candidates.
func (s *TestService) ListPublished(ctx context.Context) ([]model.Test, error) {
	tests, err := s.testRepo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	if tests == nil {
		tests = []model.Test{}
	}
	return tests, nil
}

// Create inserts a new test as DRAFT.
func (s *TestService) Create(ctx context.Context, t *model.Test) error {
	t.Status = model.TestStatusDraft
	return s.testRepo.Create(ctx, t)
}

// Update modifies an existing draft test.
func (s *TestService) Update(ctx context.Context, t *model.Test) error {
	existing, err := s.testRepo.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if existing.Status != model.TestStatusDraft {
		return ErrTestNotDraft
	}
	return s.testRepo.Update(ctx, t)
}

// Delete removes a draft test.
func (s *TestService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status != model.TestStatusDraft {
		return ErrTestNotDraft
	}
	return s.testRepo.Delete(ctx, id)
}

// Publish changes test status to PUBLISHED and caches the test config in
// Redis. The question bank must hold at least question_count active
// questions in the test's scope.
func (s *TestService) Publish(ctx context.Context, testID uuid.UUID) error {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return fmt.Errorf("get test: %w", err)
	}

	if test.Status != model.TestStatusDraft {
		return ErrTestNotDraft
	}

	active, err := s.questionRepo.CountActive(ctx, test.ModuleID)
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if active < test.QuestionCount {
		return ErrNoQuestions
	}

	if err := s.WarmTestCache(ctx, test); err != nil {
		return err
	}

	if err := s.testRepo.UpdateStatus(ctx, testID, model.TestStatusPublished); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().Str("test_id", testID.String()).Msg("Test published")
	return nil
}

// Archive takes a published test out of the candidate catalog and drops
// its cached config. Ongoing attempts keep their frozen snapshot.
func (s *TestService) Archive(ctx context.Context, testID uuid.UUID) error {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return fmt.Errorf("get test: %w", err)
	}
	if test.Status != model.TestStatusPublished {
		return ErrTestNotPublished
	}

	if err := s.testRepo.UpdateStatus(ctx, testID, model.TestStatusArchived); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	if err := s.rdb.Del(ctx, config.CacheKey.TestConfigKey(testID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Failed to drop cached config")
	}

	s.log.Info().Str("test_id", testID.String()).Msg("Test archived")
	return nil
}

// WarmTestCache loads a test's config from PostgreSQL into Redis.
// Used by Publish, RefreshCache, and PrewarmAllCaches.
func (s *TestService) WarmTestCache(ctx context.Context, test *model.Test) error {
	cfg := model.TestConfig{
		TestID:          test.ID,
		Title:           test.Title,
		DurationMinutes: test.DurationMinutes,
		PassingScore:    test.PassingScore,
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	key := config.CacheKey.TestConfigKey(test.ID.String())
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().Str("test_id", test.ID.String()).Msg("Cache warmed")
	return nil
}

// RefreshCache re-caches the config for a published test. Called when the
// passing score or duration changes after publish.
func (s *TestService) RefreshCache(ctx context.Context, testID uuid.UUID) error {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return fmt.Errorf("get test: %w", err)
	}
	if test.Status != model.TestStatusPublished {
		return ErrTestNotPublished
	}

	if err := s.WarmTestCache(ctx, test); err != nil {
		return err
	}

	s.log.Info().Str("test_id", testID.String()).Msg("Cache refreshed")
	return nil
}

// PrewarmAllCaches loads all published test configs into Redis on startup.
func (s *TestService) PrewarmAllCaches(ctx context.Context) error {
	tests, err := s.testRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published tests: %w", err)
	}

	if len(tests) == 0 {
		s.log.Info().Msg("No published tests to prewarm")
		return nil
	}

	s.log.Info().Int("count", len(tests)).Msg("Prewarming published tests...")

	warmed := 0
	for i := range tests {
		if err := s.WarmTestCache(ctx, &tests[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("test_id", tests[i].ID.String()).
				Msg("Failed to warm test, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(tests)).
		Msg("Prewarming complete")
	return nil
}

// GetTestConfig retrieves the cached test config, falling back to
// PostgreSQL on a cache miss and self-healing the cache.
func (s *TestService) GetTestConfig(ctx context.Context, testID uuid.UUID) (*model.TestConfig, error) {
	key := config.CacheKey.TestConfigKey(testID.String())
	data, err := s.rdb.Get(ctx, key).Bytes()

	if err == nil {
		var cfg model.TestConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
		return &cfg, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get config: %w", err)
	}

	// Cache miss: load from PostgreSQL and put it back.
	test, dbErr := s.testRepo.GetByID(ctx, testID)
	if dbErr != nil {
		return nil, fmt.Errorf("config not found in cache or db: %w", dbErr)
	}
	if test.Status != model.TestStatusPublished {
		return nil, ErrTestNotPublished
	}

	if err := s.WarmTestCache(ctx, test); err != nil {
		s.log.Warn().Err(err).Str("test_id", testID.String()).Msg("Self-heal cache write failed")
	}

	return &model.TestConfig{
		TestID:          test.ID,
		Title:           test.Title,
		DurationMinutes: test.DurationMinutes,
		PassingScore:    test.PassingScore,
	}, nil
}
