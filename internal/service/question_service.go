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
	"github.com/quizora/quizora-backend/internal/grading"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/repository"
	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/shuffle"
)

// QuestionService handles question editing, delivery and answer grading.
// The owner-view question set is cached in Redis per quiz; question edits
// invalidate the entry for every quiz the question is linked into.
type QuestionService struct {
	cfg          *config.Config
	questionRepo *repository.QuestionRepository
	quizRepo     *repository.QuizRepository
	sessionRepo  *repository.SessionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(
	cfg *config.Config,
	questionRepo *repository.QuestionRepository,
	quizRepo *repository.QuizRepository,
	sessionRepo *repository.SessionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *QuestionService {
	return &QuestionService{
		cfg:          cfg,
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		sessionRepo:  sessionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// Get returns one question.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("question not found")
		}
		return nil, apperror.Internal("load question", err)
	}
	return q, nil
}

// Update applies partial edits to a question.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req model.UpdateQuestionRequest) (*model.Question, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.questionRepo.Update(ctx, id, req); err != nil {
		return nil, apperror.Internal("update question", err)
	}
	s.invalidateQuizCaches(ctx, id)
	return s.Get(ctx, id)
}

// ReplaceVariants swaps a question's answer-option set. The new set must
// satisfy the same per-type rules as at creation; matching questions are
// edited through their config instead.
func (s *QuestionService) ReplaceVariants(ctx context.Context, id uuid.UUID, req model.ReplaceVariantsRequest) ([]model.VariantDetail, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch q.Type {
	case model.QuestionTypeMatching:
		return nil, apperror.Validation("matching questions are edited through their config")
	case model.QuestionTypeDescription:
		return nil, apperror.Validation("description blocks have no options")
	case model.QuestionTypeShortAnswer, model.QuestionTypeEssay:
		// Free-text questions carry a single answer slot, not an editable
		// option set.
		return nil, apperror.Validation("free-text questions have no options to edit")
	}
	if err := validateVariantSet(q.Type, req.Variants); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	created, err := s.questionRepo.ReplaceVariants(ctx, id, req.Variants, true)
	if err != nil {
		return nil, apperror.Internal("replace variants", err)
	}
	s.invalidateQuizCaches(ctx, id)

	s.log.Info().
		Str("question_id", id.String()).
		Int("variants", len(created)).
		Msg("Question variants replaced")
	return toVariantDetails(created), nil
}

// MatchingConfig returns a matching question's answer key.
func (s *QuestionService) MatchingConfig(ctx context.Context, id uuid.UUID) (*model.MatchingConfig, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Type != model.QuestionTypeMatching {
		return nil, apperror.Validation("question is not a matching question")
	}
	cfg, err := s.questionRepo.GetMatchingConfig(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("matching config not found")
		}
		return nil, apperror.Internal("load matching config", err)
	}
	return cfg, nil
}

// ReplaceMatchingConfig validates and stores a matching question's key.
// The stored config gets fresh item ids on every replace, so picks
// recorded against the old key stop resolving.
func (s *QuestionService) ReplaceMatchingConfig(ctx context.Context, id uuid.UUID, cfg model.MatchingConfig) error {
	q, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if q.Type != model.QuestionTypeMatching {
		return apperror.Validation("question is not a matching question")
	}
	if err := validateMatchingConfig(&cfg); err != nil {
		return apperror.Validation(err.Error())
	}
	if err := s.questionRepo.ReplaceMatchingConfig(ctx, id, remintMatchingConfig(&cfg)); err != nil {
		return apperror.Internal("replace matching config", err)
	}
	s.invalidateQuizCaches(ctx, id)
	s.log.Info().Str("question_id", id.String()).Msg("Matching config replaced")
	return nil
}

// Deliver assembles a quiz's question set for a caller. Takers get answer
// keys stripped; owners get everything. Matching right columns are always
// shuffled deterministically — seeded by the session when one exists, and
// by (user, quiz) otherwise — so reloading the same attempt repeats the
// same order while different takers see different ones.
func (s *QuestionService) Deliver(ctx context.Context, quizID, userID uuid.UUID, sessionID *uuid.UUID, teacherView bool) ([]model.QuestionForDelivery, error) {
	seed := deliverySeed(userID, quizID, sessionID)

	// The owner view caches whole; the per-caller column shuffle is applied
	// after the cache, so the stored entry is caller-independent.
	cacheKey := config.CacheKey.QuizQuestionsKey(quizID.String())
	if teacherView {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var questions []model.QuestionForDelivery
			if json.Unmarshal([]byte(cached), &questions) == nil {
				return shuffleMatchingColumns(questions, seed), nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("question cache read failed, falling back to database")
		}
	}

	ids, err := s.quizRepo.QuestionIDs(ctx, quizID)
	if err != nil {
		return nil, apperror.Internal("load question ids", err)
	}
	if len(ids) == 0 {
		return []model.QuestionForDelivery{}, nil
	}

	variantsByQuestion, err := s.questionRepo.ListVariantsForQuestions(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("load variants", err)
	}

	out := make([]model.QuestionForDelivery, 0, len(ids))
	for _, id := range ids {
		q, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		d := model.QuestionForDelivery{
			ID:          q.ID,
			Type:        q.Type,
			MultiAnswer: q.MultiAnswer,
			Text:        q.Text,
		}

		variants := variantsByQuestion[id]
		switch q.Type {
		case model.QuestionTypeMultichoice, model.QuestionTypeTrueFalse:
			for _, v := range variants {
				d.Variants = append(d.Variants, model.VariantOption{ID: v.QuestionVariantID, Text: v.Text})
			}
		case model.QuestionTypeMatching:
			cfg, err := s.questionRepo.GetMatchingConfig(ctx, id)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, apperror.Internal("matching question without config", nil)
				}
				return nil, apperror.Internal("load matching config", err)
			}
			d.MatchingLeftItems = cfg.LeftItems
			d.MatchingRightItems = cfg.RightItems
			if teacherView {
				d.AnswerKey = &model.QuestionAnswerKey{CorrectPairs: cfg.CorrectPairs}
			}
		}

		if teacherView && q.Type != model.QuestionTypeMatching && len(variants) > 0 {
			if d.AnswerKey == nil {
				d.AnswerKey = &model.QuestionAnswerKey{}
			}
			d.AnswerKey.Variants = toVariantDetails(variants)
		}

		out = append(out, d)
	}

	if teacherView {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, raw, s.cfg.CacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("question cache write failed")
			}
		}
	}
	return shuffleMatchingColumns(out, seed), nil
}

// deliverySeed picks the shuffle seed for one delivery: the session id when
// an attempt is open, otherwise a (user, quiz) pair so browsing before any
// session still gets a stable per-user order.
func deliverySeed(userID, quizID uuid.UUID, sessionID *uuid.UUID) string {
	if sessionID != nil {
		return sessionID.String()
	}
	return userID.String() + "_" + quizID.String()
}

// shuffleMatchingColumns reorders every matching question's right column
// with a per-question seed derived from the caller's seed. The question id
// is mixed in so no two questions in one set share an order.
func shuffleMatchingColumns(questions []model.QuestionForDelivery, seed string) []model.QuestionForDelivery {
	for i := range questions {
		if questions[i].Type == model.QuestionTypeMatching && len(questions[i].MatchingRightItems) > 0 {
			questions[i].MatchingRightItems = shuffle.SliceSeeded(
				questions[i].MatchingRightItems, seed+questions[i].ID.String())
		}
	}
	return questions
}

// invalidateQuizCaches drops the cached owner view of every quiz the
// question belongs to.
func (s *QuestionService) invalidateQuizCaches(ctx context.Context, questionID uuid.UUID) {
	quizIDs, err := s.quizRepo.QuizzesContaining(ctx, questionID)
	if err != nil {
		s.log.Warn().Err(err).Msg("quiz lookup for cache invalidation failed")
		return
	}
	for _, id := range quizIDs {
		if err := s.rdb.Del(ctx, config.CacheKey.QuizQuestionsKey(id.String())).Err(); err != nil {
			s.log.Warn().Err(err).Msg("quiz cache invalidation failed")
		}
	}
}

// Solve grades a submission inside the caller's active session for the
// quiz and records the verdict atomically.
func (s *QuestionService) Solve(ctx context.Context, userID, questionID uuid.UUID, req model.SubmitAnswerRequest) (*model.GradeResult, error) {
	q, err := s.Get(ctx, questionID)
	if err != nil {
		return nil, err
	}

	belongs, err := s.quizRepo.ContainsQuestion(ctx, req.QuizID, questionID)
	if err != nil {
		return nil, apperror.Internal("check question membership", err)
	}
	if !belongs {
		return nil, apperror.Validation("question does not belong to this quiz")
	}

	session, err := s.sessionRepo.GetActive(ctx, userID, req.QuizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("no active session for this quiz").
				WithCode(string(response.ErrNoActiveSession))
		}
		return nil, apperror.Internal("load session", err)
	}

	variants, err := s.questionRepo.ListVariants(ctx, questionID)
	if err != nil {
		return nil, apperror.Internal("load variants", err)
	}

	var cfg *model.MatchingConfig
	if q.Type == model.QuestionTypeMatching {
		cfg, err = s.questionRepo.GetMatchingConfig(ctx, questionID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.Internal("load matching config", err)
		}
	}

	outcome, err := grading.Grade(*q, variants, cfg, grading.Submission{
		AnswerIDs:  req.AnswerIDs,
		AnswerText: req.AnswerText,
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.SaveGrade(ctx, session.ID, questionID, outcome.Picks, outcome.IsRight); err != nil {
		if errors.Is(err, repository.ErrSessionClosed) {
			return nil, apperror.Conflict("session has already ended").
				WithCode(string(response.ErrSessionEnded))
		}
		return nil, apperror.Internal("save grade", err)
	}

	s.log.Debug().
		Str("session_id", session.ID.String()).
		Str("question_id", questionID.String()).
		Msg("Answer graded")

	return &model.GradeResult{
		QuestionID: questionID,
		IsRight:    outcome.IsRight,
		Picks:      outcome.Graded,
		Pairs:      outcome.Pairs,
	}, nil
}

func toVariantDetails(variants []model.VariantWithLink) []model.VariantDetail {
	details := make([]model.VariantDetail, 0, len(variants))
	for _, v := range variants {
		details = append(details, model.VariantDetail{
			ID:                v.ID,
			Text:              v.Text,
			ExplainRight:      v.ExplainRight,
			ExplainWrong:      v.ExplainWrong,
			IsRight:           v.IsRight,
			QuestionVariantID: v.QuestionVariantID,
		})
	}
	return details
}
