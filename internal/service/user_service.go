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

// UserService handles profile reads and edits. Role lookups are cached in
// Redis because the RBAC middleware hits them on every request.
type UserService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(cfg *config.Config, userRepo *repository.UserRepository, rdb *redis.Client, log zerolog.Logger) *UserService {
	return &UserService{
		cfg:      cfg,
		userRepo: userRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "user_service").Logger(),
	}
}

// Profile returns a user with their roles.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*model.UserProfile, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Internal("load user", err)
	}
	roles, err := s.userRepo.RolesOf(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("load roles", err)
	}
	return &model.UserProfile{User: *u, Roles: roles}, nil
}

// RoleSlugs returns a user's role slugs, served from Redis when warm.
func (s *UserService) RoleSlugs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	key := config.CacheKey.UserRolesKey(userID.String())

	cached, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var slugs []string
		if json.Unmarshal([]byte(cached), &slugs) == nil {
			return slugs, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("role cache read failed, falling back to database")
	}

	roles, err := s.userRepo.RolesOf(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("load roles", err)
	}
	slugs := make([]string, 0, len(roles))
	for _, r := range roles {
		slugs = append(slugs, r.Slug)
	}

	if raw, err := json.Marshal(slugs); err == nil {
		if err := s.rdb.Set(ctx, key, raw, s.cfg.CacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("role cache write failed")
		}
	}
	return slugs, nil
}

// Update applies profile edits and drops the role cache entry so a stale
// read cannot outlive a role change done in the same admin action.
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, req model.UpdateUserRequest) (*model.UserProfile, error) {
	if err := s.userRepo.Update(ctx, userID, req.FullName, req.AvatarURL); err != nil {
		return nil, apperror.Internal("update user", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.UserRolesKey(userID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Msg("role cache invalidation failed")
	}
	return s.Profile(ctx, userID)
}

// PromoteToTeacher grants the teacher role and invalidates the role cache.
func (s *UserService) PromoteToTeacher(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.AssignRole(ctx, userID, model.RoleTeacher); err != nil {
		return apperror.Internal("assign role", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.UserRolesKey(userID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Msg("role cache invalidation failed")
	}
	s.log.Info().Str("user_id", userID.String()).Msg("User promoted to teacher")
	return nil
}
