package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/certpath/certpath-backend/internal/config"
	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/repository"
	"github.com/certpath/certpath-backend/internal/scoring"
)

// Attempt lifecycle errors.
var (
	ErrPaymentRequired  = errors.New("membership fee has not been paid")
	ErrTestNotAvailable = errors.New("test is not available")
	ErrAttemptNotFound  = errors.New("no ongoing attempt found")
	ErrUnknownQuestion  = errors.New("answer references a question outside the attempt")
	ErrUnknownOption    = errors.New("answer references an option the question does not have")
)

// errAlreadyFinalized signals that a concurrent submit won the race to
// finalize the attempt. Submit resolves it via the idempotency path.
var errAlreadyFinalized = errors.New("attempt already finalized")

// AttemptService drives the test attempt lifecycle: assembly, resume,
// progress updates, and the transactional finalize on submit.
type AttemptService struct {
	pool        *pgxpool.Pool
	attemptRepo *repository.AttemptRepository
	profileRepo *repository.ProfileRepository
	testRepo    *repository.TestRepository
	qRepo       *repository.QuestionRepository
	testService *TestService
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewAttemptService creates a new AttemptService. The pgx pool is held
// directly because submit finalizes across four tables in one transaction.
func NewAttemptService(
	pool *pgxpool.Pool,
	attemptRepo *repository.AttemptRepository,
	profileRepo *repository.ProfileRepository,
	testRepo *repository.TestRepository,
	qRepo *repository.QuestionRepository,
	testService *TestService,
	rdb *redis.Client,
	log zerolog.Logger,
) *AttemptService {
	return &AttemptService{
		pool:        pool,
		attemptRepo: attemptRepo,
		profileRepo: profileRepo,
		testRepo:    testRepo,
		qRepo:       qRepo,
		testService: testService,
		rdb:         rdb,
		log:         log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start assembles a new attempt for the candidate on a published test.
// The question snapshot is frozen at this moment; later bank edits do not
// reach an attempt in flight. A second start while one is ongoing fails
// with repository.ErrOngoingAttemptExists.
func (s *AttemptService) Start(ctx context.Context, candidateID int, testID uuid.UUID) (*model.AttemptState, error) {
	profile, err := s.profileRepo.GetByCandidate(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if !profile.MayStartTest() {
		return nil, ErrPaymentRequired
	}

	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if test.Status != model.TestStatusPublished {
		return nil, ErrTestNotAvailable
	}

	bank, err := s.qRepo.ListByScope(ctx, test.ModuleID, false)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(bank) == 0 {
		return nil, ErrNoQuestions
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	snapshot := AssembleQuestions(bank, test.QuestionCount, test.Randomize, rng)

	attempt := &model.OngoingAttempt{
		CandidateID:      candidateID,
		TestID:           test.ID,
		Questions:        snapshot,
		Answers:          map[string]string{},
		CurrentIndex:     0,
		RemainingSeconds: test.DurationMinutes * 60,
		Started:          false,
	}

	if err := s.attemptRepo.CreateOngoing(ctx, attempt); err != nil {
		return nil, err
	}

	// Cache the candidate → attempt mapping for the WS fast path.
	mappingKey := config.CacheKey.CandidateOngoingAttemptKey(candidateID)
	if err := s.rdb.Set(ctx, mappingKey, attempt.ID.String(), 0).Err(); err != nil {
		s.log.Warn().Err(err).Int("candidate_id", candidateID).Msg("Failed to cache attempt mapping")
	}

	s.log.Info().
		Int("candidate_id", candidateID).
		Str("test_id", test.ID.String()).
		Int("questions", len(snapshot)).
		Msg("Attempt started")

	return s.buildState(attempt), nil
}

// GetState retrieves the candidate's ongoing attempt for resume. Answers
// autosaved over WebSocket are overlaid from Redis so a reconnecting
// client never sees older data than it last saved.
func (s *AttemptService) GetState(ctx context.Context, candidateID int) (*model.AttemptState, error) {
	attempt, err := s.attemptRepo.GetOngoingByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get ongoing attempt: %w", err)
	}

	autosaved, err := s.rdb.HGetAll(ctx, config.CacheKey.CandidateAnswersKey(attempt.ID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("get autosaved answers: %w", err)
	}
	for qid, label := range autosaved {
		attempt.Answers[qid] = label
	}

	return s.buildState(attempt), nil
}

// Update persists the mutable attempt state sent by the client: answers,
// navigation position, the countdown, and the started flag. The version
// check rejects a save raced by another tab.
func (s *AttemptService) Update(ctx context.Context, candidateID int, req *model.UpdateAttemptRequest) (*model.AttemptState, error) {
	attempt, err := s.attemptRepo.GetOngoingByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get ongoing attempt: %w", err)
	}

	if req.Answers != nil {
		if err := s.validateAnswers(attempt.Questions, req.Answers); err != nil {
			return nil, err
		}
		for qid, label := range req.Answers {
			attempt.Answers[qid] = label
		}
	}
	if req.CurrentIndex != nil {
		idx := *req.CurrentIndex
		if idx >= len(attempt.Questions) {
			idx = len(attempt.Questions) - 1
		}
		attempt.CurrentIndex = idx
	}
	if req.RemainingSeconds != nil {
		attempt.RemainingSeconds = *req.RemainingSeconds
	}
	if req.Started != nil {
		attempt.Started = *req.Started
	}

	attempt.Version = req.Version
	if err := s.attemptRepo.UpdateOngoing(ctx, attempt); err != nil {
		return nil, err
	}

	// Mirror answers into Redis so WS autosaves merge onto current state.
	if len(req.Answers) > 0 {
		answersKey := config.CacheKey.CandidateAnswersKey(attempt.ID.String())
		flat := make(map[string]interface{}, len(req.Answers))
		for qid, label := range req.Answers {
			flat[qid] = label
		}
		if err := s.rdb.HSet(ctx, answersKey, flat).Err(); err != nil {
			s.log.Warn().Err(err).Str("attempt_id", attempt.ID.String()).Msg("Failed to mirror answers")
		}
	}

	return s.buildState(attempt), nil
}

// SaveAnswer is the WebSocket autosave fast path: the answer lands in the
// Redis hash immediately and a queue job persists it to PostgreSQL
// asynchronously.
func (s *AttemptService) SaveAnswer(ctx context.Context, candidateID int, questionID, label string) error {
	attemptID, err := s.resolveAttemptID(ctx, candidateID)
	if err != nil {
		return err
	}

	attempt, err := s.attemptRepo.GetOngoingByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAttemptNotFound
		}
		return fmt.Errorf("get ongoing attempt: %w", err)
	}
	if err := s.validateAnswers(attempt.Questions, map[string]string{questionID: label}); err != nil {
		return err
	}

	answersKey := config.CacheKey.CandidateAnswersKey(attemptID)
	if err := s.rdb.HSet(ctx, answersKey, questionID, label).Err(); err != nil {
		return fmt.Errorf("autosave to redis: %w", err)
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"attempt_id":  attemptID,
		"question_id": questionID,
		"label":       label,
	})
	return s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload).Err()
}

// Submit finalizes the candidate's ongoing attempt: merge autosaved
// answers, score the snapshot, and commit attempt, profile, and
// certificate in one transaction. A repeat submit returns the already
// finalized attempt unchanged.
func (s *AttemptService) Submit(ctx context.Context, candidateID int, timedOut bool) (*model.Attempt, error) {
	attempt, err := s.attemptRepo.GetOngoingByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Idempotency: the attempt may already be finalized.
			latest, lerr := s.attemptRepo.GetLatestByCandidate(ctx, candidateID)
			if lerr != nil {
				return nil, ErrAttemptNotFound
			}
			return latest, nil
		}
		return nil, fmt.Errorf("get ongoing attempt: %w", err)
	}

	// Overlay autosaved answers so nothing saved over WS is lost.
	answersKey := config.CacheKey.CandidateAnswersKey(attempt.ID.String())
	autosaved, err := s.rdb.HGetAll(ctx, answersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("get autosaved answers: %w", err)
	}
	for qid, label := range autosaved {
		attempt.Answers[qid] = label
	}

	cfg, err := s.testService.GetTestConfig(ctx, attempt.TestID)
	if err != nil {
		// Archived mid-attempt: fall back to the stored test row.
		test, terr := s.testRepo.GetByID(ctx, attempt.TestID)
		if terr != nil {
			return nil, fmt.Errorf("get test config: %w", err)
		}
		cfg = &model.TestConfig{
			TestID:          test.ID,
			Title:           test.Title,
			DurationMinutes: test.DurationMinutes,
			PassingScore:    test.PassingScore,
		}
	}

	result := scoring.Grade(attempt.Questions, attempt.Answers, cfg.PassingScore)

	finalized, err := s.finalize(ctx, attempt, result, timedOut)
	if err != nil {
		if errors.Is(err, errAlreadyFinalized) {
			// A concurrent submit (another tab, or the expiry sweep)
			// finalized first; return its result unchanged.
			latest, lerr := s.attemptRepo.GetLatestByCandidate(ctx, candidateID)
			if lerr != nil {
				return nil, ErrAttemptNotFound
			}
			return latest, nil
		}
		return nil, err
	}

	// Best effort cleanup of the attempt's Redis keys.
	s.rdb.Del(ctx, answersKey)
	s.rdb.Del(ctx, config.CacheKey.CandidateOngoingAttemptKey(candidateID))

	s.log.Info().
		Int("candidate_id", candidateID).
		Str("attempt_id", finalized.ID.String()).
		Int("score", finalized.Score).
		Bool("passed", finalized.Passed).
		Bool("timed_out", timedOut).
		Msg("Attempt submitted")

	return finalized, nil
}

// finalize commits the attempt result atomically: insert the finalized
// attempt, delete the ongoing row, update the profile, and issue a
// certificate on a pass. Either everything lands or nothing does.
func (s *AttemptService) finalize(ctx context.Context, attempt *model.OngoingAttempt, result scoring.Result, timedOut bool) (*model.Attempt, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	questionsRaw, err := json.Marshal(attempt.Questions)
	if err != nil {
		return nil, err
	}
	answersRaw, err := json.Marshal(attempt.Answers)
	if err != nil {
		return nil, err
	}

	finalized := &model.Attempt{
		CandidateID:    attempt.CandidateID,
		TestID:         attempt.TestID,
		Questions:      attempt.Questions,
		Answers:        attempt.Answers,
		Score:          result.Score,
		CorrectCount:   result.CorrectCount,
		TotalQuestions: result.TotalQuestions,
		Passed:         result.Passed,
		TimedOut:       timedOut,
		StartedAt:      attempt.CreatedAt,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO attempts (candidate_id, test_id, questions, answers, score, correct_count, total_questions, passed, timed_out, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, submitted_at`,
		finalized.CandidateID, finalized.TestID, questionsRaw, answersRaw,
		finalized.Score, finalized.CorrectCount, finalized.TotalQuestions,
		finalized.Passed, finalized.TimedOut, finalized.StartedAt,
	).Scan(&finalized.ID, &finalized.SubmittedAt)
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	// The delete doubles as the exactly-once guard: a concurrent submit
	// that already finalized this attempt removed the row, so zero rows
	// affected means lose the race and roll everything back.
	ct, err := tx.Exec(ctx,
		`DELETE FROM ongoing_attempts WHERE id = $1`, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("delete ongoing: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return nil, errAlreadyFinalized
	}

	if _, err := tx.Exec(ctx,
		`UPDATE profiles
		 SET test_completed = TRUE, test_score = $1,
		     certificate_issued = certificate_issued OR $2, updated_at = NOW()
		 WHERE candidate_id = $3`,
		finalized.Score, finalized.Passed, finalized.CandidateID); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if finalized.Passed {
		if _, err := tx.Exec(ctx,
			`INSERT INTO certificates (candidate_id, attempt_id, test_id, score)
			 VALUES ($1, $2, $3, $4)`,
			finalized.CandidateID, finalized.ID, finalized.TestID, finalized.Score); err != nil {
			return nil, fmt.Errorf("insert certificate: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return finalized, nil
}

// ForceSubmitExpired finalizes every started attempt whose countdown ran
// out longer than grace ago. Called by the expiry worker.
func (s *AttemptService) ForceSubmitExpired(ctx context.Context, grace time.Duration) (int, error) {
	expired, err := s.attemptRepo.ListExpired(ctx, grace)
	if err != nil {
		return 0, fmt.Errorf("list expired: %w", err)
	}

	submitted := 0
	for i := range expired {
		if _, err := s.Submit(ctx, expired[i].CandidateID, true); err != nil {
			s.log.Error().Err(err).
				Int("candidate_id", expired[i].CandidateID).
				Str("attempt_id", expired[i].ID.String()).
				Msg("Force submit failed")
			continue
		}
		submitted++
	}
	return submitted, nil
}

// History returns the candidate's finalized attempts, newest first.
func (s *AttemptService) History(ctx context.Context, candidateID int) ([]model.Attempt, error) {
	attempts, err := s.attemptRepo.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if attempts == nil {
		attempts = []model.Attempt{}
	}
	return attempts, nil
}

// resolveAttemptID maps a candidate to their ongoing attempt ID, reading
// the Redis mapping first and self-healing it from PostgreSQL on a miss.
func (s *AttemptService) resolveAttemptID(ctx context.Context, candidateID int) (string, error) {
	mappingKey := config.CacheKey.CandidateOngoingAttemptKey(candidateID)

	id, err := s.rdb.Get(ctx, mappingKey).Result()
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get attempt mapping: %w", err)
	}

	attempt, err := s.attemptRepo.GetOngoingByCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrAttemptNotFound
		}
		return "", fmt.Errorf("get ongoing attempt: %w", err)
	}

	_ = s.rdb.Set(ctx, mappingKey, attempt.ID.String(), 0)
	return attempt.ID.String(), nil
}

// validateAnswers rejects answers that point outside the frozen snapshot.
func (s *AttemptService) validateAnswers(questions []model.AttemptQuestion, answers map[string]string) error {
	byID := make(map[string]*model.AttemptQuestion, len(questions))
	for i := range questions {
		byID[questions[i].ID.String()] = &questions[i]
	}

	for qid, label := range answers {
		q, ok := byID[qid]
		if !ok {
			return ErrUnknownQuestion
		}
		found := false
		for _, o := range q.Options {
			if o.Label == label {
				found = true
				break
			}
		}
		if !found {
			return ErrUnknownOption
		}
	}
	return nil
}

func (s *AttemptService) buildState(attempt *model.OngoingAttempt) *model.AttemptState {
	questions := make([]model.CandidateQuestion, len(attempt.Questions))
	for i, q := range attempt.Questions {
		questions[i] = q.ForCandidate()
	}

	return &model.AttemptState{
		AttemptID:        attempt.ID,
		TestID:           attempt.TestID,
		Questions:        questions,
		Answers:          attempt.Answers,
		CurrentIndex:     attempt.CurrentIndex,
		RemainingSeconds: attempt.RemainingSeconds,
		Started:          attempt.Started,
		Version:          attempt.Version,
	}
}
