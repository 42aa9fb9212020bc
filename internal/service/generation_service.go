package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/config"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/repository"
)

// GenerationService bridges quiz generation to an external backend over
// Redis list queues: requests go out on one list, produced quizzes come
// back on another and are persisted by the worker.
type GenerationService struct {
	genRepo     *repository.GenerationRepository
	quizService *QuizService
	themeRepo   *repository.ThemeRepository
	rdb         *redis.Client
	events      EventPublisher
	log         zerolog.Logger
}

// NewGenerationService creates a new GenerationService.
func NewGenerationService(
	genRepo *repository.GenerationRepository,
	quizService *QuizService,
	themeRepo *repository.ThemeRepository,
	rdb *redis.Client,
	events EventPublisher,
	log zerolog.Logger,
) *GenerationService {
	return &GenerationService{
		genRepo:     genRepo,
		quizService: quizService,
		themeRepo:   themeRepo,
		rdb:         rdb,
		events:      events,
		log:         log.With().Str("component", "generation_service").Logger(),
	}
}

// Request records a generation job and enqueues it for the backend.
func (s *GenerationService) Request(ctx context.Context, userID uuid.UUID, req model.GenerationRequest) (*model.GenerationJob, error) {
	if _, err := s.themeRepo.GetByID(ctx, req.ThemeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("theme not found")
		}
		return nil, apperror.Internal("load theme", err)
	}

	job := &model.GenerationJob{
		UserID:        userID,
		ThemeID:       req.ThemeID,
		QuestionCount: req.QuestionCount,
		Prompt:        req.Prompt,
		Status:        model.GenerationStatusQueued,
	}
	if req.FileID != uuid.Nil {
		job.FileID = &req.FileID
	}
	if err := s.genRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal("create generation job", err)
	}

	raw, err := json.Marshal(job)
	if err != nil {
		return nil, apperror.Internal("encode generation job", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.GenerationRequestQueue, raw).Err(); err != nil {
		// The row stays queued; a requeue sweep can pick it up later.
		return nil, apperror.Internal("enqueue generation job", err)
	}

	s.log.Info().
		Str("job_id", job.ID.String()).
		Int("theme_id", req.ThemeID).
		Msg("Generation job enqueued")
	return job, nil
}

// Job returns one of the caller's generation jobs.
func (s *GenerationService) Job(ctx context.Context, userID, jobID uuid.UUID) (*model.GenerationJob, error) {
	job, err := s.genRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("generation job not found")
		}
		return nil, apperror.Internal("load generation job", err)
	}
	if job.UserID != userID {
		return nil, apperror.Forbidden("this job belongs to another user")
	}
	return job, nil
}

// ListJobs returns the caller's generation jobs.
func (s *GenerationService) ListJobs(ctx context.Context, userID uuid.UUID) ([]model.GenerationJob, error) {
	jobs, err := s.genRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("list generation jobs", err)
	}
	if jobs == nil {
		jobs = []model.GenerationJob{}
	}
	return jobs, nil
}

// HandleResult persists a generated quiz coming back from the backend and
// closes its job. Called by the generation worker. A returned error means
// the payload is worth retrying; results that can never succeed (unknown
// job, a quiz that fails validation) are consumed here, with the job
// marked failed, so they do not circle on the queue forever.
func (s *GenerationService) HandleResult(ctx context.Context, result model.GeneratedQuiz) error {
	job, err := s.genRepo.GetByID(ctx, result.JobID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.log.Warn().Str("job_id", result.JobID.String()).Msg("result for unknown job, dropping")
			return nil
		}
		return fmt.Errorf("load job: %w", err)
	}

	quiz, err := s.quizService.Create(ctx, job.UserID, model.CreateQuizRequest{
		Type:        "generated",
		Name:        result.Name,
		ThemeID:     &job.ThemeID,
		MaxSessions: 0,
		Questions:   result.Questions,
	})
	if err != nil {
		if apperror.KindOf(err) != apperror.KindValidation {
			return fmt.Errorf("persist generated quiz: %w", err)
		}
		if setErr := s.genRepo.SetStatus(ctx, job.ID, model.GenerationStatusFailed, err.Error()); setErr != nil {
			s.log.Error().Err(setErr).Str("job_id", job.ID.String()).Msg("job status not updated")
			return fmt.Errorf("fail job: %w", setErr)
		}
		if s.events != nil {
			s.events.Publish(config.CacheKey.GenerationJobKey(job.ID.String()), "generation_failed", job)
		}
		s.log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("Generated quiz rejected, job failed")
		return nil
	}

	if err := s.genRepo.SetResult(ctx, job.ID, quiz.ID); err != nil {
		return fmt.Errorf("close job: %w", err)
	}

	if s.events != nil {
		s.events.Publish(config.CacheKey.GenerationJobKey(job.ID.String()), "generation_done", job)
	}
	s.log.Info().
		Str("job_id", job.ID.String()).
		Str("quiz_id", quiz.ID.String()).
		Msg("Generated quiz persisted")
	return nil
}

// MarkRunning moves a job to running state. Called by the worker when the
// backend acknowledges pickup.
func (s *GenerationService) MarkRunning(ctx context.Context, jobID uuid.UUID) error {
	return s.genRepo.SetStatus(ctx, jobID, model.GenerationStatusRunning, "")
}
