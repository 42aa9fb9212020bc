package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/config"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/repository"
)

// SubjectService handles the subject catalog with a Redis read cache. The
// catalog changes rarely and is read on almost every page load.
type SubjectService struct {
	cfg         *config.Config
	subjectRepo *repository.SubjectRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(cfg *config.Config, subjectRepo *repository.SubjectRepository, rdb *redis.Client, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		cfg:         cfg,
		subjectRepo: subjectRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// List returns all subjects, cache first.
func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	key := config.CacheKey.SubjectsKey()

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var subjects []model.Subject
		if json.Unmarshal([]byte(cached), &subjects) == nil {
			return subjects, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("subject cache read failed, falling back to database")
	}

	subjects, err := s.subjectRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal("list subjects", err)
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}

	if raw, err := json.Marshal(subjects); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.cfg.CacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("subject cache write failed")
		}
	}
	return subjects, nil
}

// Get returns one subject.
func (s *SubjectService) Get(ctx context.Context, id int) (*model.Subject, error) {
	sub, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("subject not found")
		}
		return nil, apperror.Internal("load subject", err)
	}
	return sub, nil
}

// Create inserts a subject and invalidates the catalog cache.
func (s *SubjectService) Create(ctx context.Context, req model.CreateSubjectRequest) (*model.Subject, error) {
	sub := &model.Subject{
		Name:        req.Name,
		ShortName:   req.ShortName,
		Description: req.Description,
		YearStart:   req.YearStart,
		YearEnd:     req.YearEnd,
	}
	if err := s.subjectRepo.Create(ctx, sub); err != nil {
		return nil, apperror.Internal("create subject", err)
	}
	s.invalidate(ctx)
	s.log.Info().Int("subject_id", sub.ID).Msg("Subject created")
	return sub, nil
}

// Delete removes a subject and invalidates the catalog cache.
func (s *SubjectService) Delete(ctx context.Context, id int) error {
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		return apperror.Internal("delete subject", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *SubjectService) invalidate(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.SubjectsKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("subject cache invalidation failed")
	}
}
