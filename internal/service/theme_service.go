package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/config"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/repository"
)

// ThemeService handles themes and their study summaries, with per-subject
// theme lists cached in Redis.
type ThemeService struct {
	cfg         *config.Config
	themeRepo   *repository.ThemeRepository
	subjectRepo *repository.SubjectRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewThemeService creates a new ThemeService.
func NewThemeService(cfg *config.Config, themeRepo *repository.ThemeRepository, subjectRepo *repository.SubjectRepository, rdb *redis.Client, log zerolog.Logger) *ThemeService {
	return &ThemeService{
		cfg:         cfg,
		themeRepo:   themeRepo,
		subjectRepo: subjectRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "theme_service").Logger(),
	}
}

// ListBySubject returns a subject's themes, cache first.
func (s *ThemeService) ListBySubject(ctx context.Context, subjectID int) ([]model.Theme, error) {
	key := config.CacheKey.SubjectThemesKey(subjectID)

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var themes []model.Theme
		if json.Unmarshal([]byte(cached), &themes) == nil {
			return themes, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("theme cache read failed, falling back to database")
	}

	themes, err := s.themeRepo.ListBySubject(ctx, subjectID)
	if err != nil {
		return nil, apperror.Internal("list themes", err)
	}
	if themes == nil {
		themes = []model.Theme{}
	}

	if raw, err := json.Marshal(themes); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.cfg.CacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("theme cache write failed")
		}
	}
	return themes, nil
}

// Get returns one theme.
func (s *ThemeService) Get(ctx context.Context, id int) (*model.Theme, error) {
	t, err := s.themeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("theme not found")
		}
		return nil, apperror.Internal("load theme", err)
	}
	return t, nil
}

// Create adds a theme under a subject and invalidates the subject's theme
// cache.
func (s *ThemeService) Create(ctx context.Context, subjectID int, req model.CreateThemeRequest) (*model.Theme, error) {
	if _, err := s.subjectRepo.GetByID(ctx, subjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("subject not found")
		}
		return nil, apperror.Internal("load subject", err)
	}

	t := &model.Theme{SubjectID: subjectID, Name: req.Name, Description: req.Description}
	if err := s.themeRepo.Create(ctx, t); err != nil {
		return nil, apperror.Internal("create theme", err)
	}
	s.invalidate(ctx, subjectID)
	s.log.Info().Int("theme_id", t.ID).Int("subject_id", subjectID).Msg("Theme created")
	return t, nil
}

// Delete removes a theme and invalidates its subject's theme cache.
func (s *ThemeService) Delete(ctx context.Context, id int) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.themeRepo.Delete(ctx, id); err != nil {
		return apperror.Internal("delete theme", err)
	}
	s.invalidate(ctx, t.SubjectID)
	return nil
}

// ListSummaries returns a theme's study summaries.
func (s *ThemeService) ListSummaries(ctx context.Context, themeID int) ([]model.Summary, error) {
	summaries, err := s.themeRepo.ListSummaries(ctx, themeID)
	if err != nil {
		return nil, apperror.Internal("list summaries", err)
	}
	if summaries == nil {
		summaries = []model.Summary{}
	}
	return summaries, nil
}

// CreateSummary stores a study summary under a theme.
func (s *ThemeService) CreateSummary(ctx context.Context, themeID int, name, content string) (*model.Summary, error) {
	if _, err := s.Get(ctx, themeID); err != nil {
		return nil, err
	}
	sum := &model.Summary{ThemeID: themeID, Name: name, Content: content}
	if err := s.themeRepo.CreateSummary(ctx, sum); err != nil {
		return nil, apperror.Internal("create summary", err)
	}
	return sum, nil
}

// DeleteSummary removes a study summary.
func (s *ThemeService) DeleteSummary(ctx context.Context, id uuid.UUID) error {
	if err := s.themeRepo.DeleteSummary(ctx, id); err != nil {
		return apperror.Internal("delete summary", err)
	}
	return nil
}

func (s *ThemeService) invalidate(ctx context.Context, subjectID int) {
	if err := s.rdb.Del(ctx, config.CacheKey.SubjectThemesKey(subjectID)).Err(); err != nil {
		s.log.Warn().Err(err).Msg("theme cache invalidation failed")
	}
}
