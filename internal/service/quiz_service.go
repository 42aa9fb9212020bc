package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/config"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/repository"
)

// QuizService handles quiz CRUD and the assembly of question sets for
// delivery.
type QuizService struct {
	quizRepo     *repository.QuizRepository
	questionRepo *repository.QuestionRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizRepo *repository.QuizRepository, questionRepo *repository.QuestionRepository, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "quiz_service").Logger(),
	}
}

// Create validates every question payload against its type and inserts the
// quiz atomically.
func (s *QuizService) Create(ctx context.Context, ownerID uuid.UUID, req model.CreateQuizRequest) (*model.Quiz, error) {
	for i, q := range req.Questions {
		if err := validateQuestion(q); err != nil {
			return nil, apperror.ValidationFields("invalid question payload",
				map[string]string{fmt.Sprintf("questions[%d]", i): err.Error()})
		}
		if q.MatchingConfig != nil {
			req.Questions[i].MatchingConfig = remintMatchingConfig(q.MatchingConfig)
		}
	}

	quiz := &model.Quiz{
		Type:        req.Type,
		Name:        req.Name,
		Description: req.Description,
		MaxSessions: req.MaxSessions,
		ThemeID:     req.ThemeID,
	}
	if _, err := s.quizRepo.Create(ctx, ownerID, quiz, req.Questions); err != nil {
		return nil, apperror.Internal("create quiz", err)
	}

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Str("owner_id", ownerID.String()).
		Int("questions", len(req.Questions)).
		Msg("Quiz created")
	return quiz, nil
}

// AddQuestion validates and appends one question to an existing quiz.
// Only owners may add questions.
func (s *QuizService) AddQuestion(ctx context.Context, quizID, userID uuid.UUID, req model.CreateQuestionRequest) (*model.Question, error) {
	owner, err := s.IsOwner(ctx, quizID, userID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, apperror.Forbidden("you do not own this quiz")
	}
	if err := validateQuestion(req); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if req.MatchingConfig != nil {
		req.MatchingConfig = remintMatchingConfig(req.MatchingConfig)
	}

	questionID, err := s.quizRepo.AddQuestion(ctx, quizID, req)
	if err != nil {
		return nil, apperror.Internal("add question", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.QuizQuestionsKey(quizID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Msg("quiz cache invalidation failed")
	}

	question, err := s.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, apperror.Internal("load question", err)
	}
	s.log.Info().
		Str("quiz_id", quizID.String()).
		Str("question_id", questionID.String()).
		Msg("Question added to quiz")
	return question, nil
}

// Get returns one quiz.
func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("quiz not found")
		}
		return nil, apperror.Internal("load quiz", err)
	}
	return quiz, nil
}

// ListByTheme returns a theme's quizzes with question counts.
func (s *QuizService) ListByTheme(ctx context.Context, themeID int) ([]model.QuizWithCount, error) {
	quizzes, err := s.quizRepo.ListByTheme(ctx, themeID)
	if err != nil {
		return nil, apperror.Internal("list quizzes", err)
	}
	if quizzes == nil {
		quizzes = []model.QuizWithCount{}
	}
	return quizzes, nil
}

// ListOwned returns the caller's quizzes.
func (s *QuizService) ListOwned(ctx context.Context, userID uuid.UUID) ([]model.QuizWithCount, error) {
	quizzes, err := s.quizRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.Internal("list owned quizzes", err)
	}
	if quizzes == nil {
		quizzes = []model.QuizWithCount{}
	}
	return quizzes, nil
}

// Delete removes a quiz and everything hanging off it. Only owners may
// delete.
func (s *QuizService) Delete(ctx context.Context, quizID, userID uuid.UUID) error {
	if _, err := s.Get(ctx, quizID); err != nil {
		return err
	}
	owner, err := s.quizRepo.IsOwner(ctx, quizID, userID)
	if err != nil {
		return apperror.Internal("check ownership", err)
	}
	if !owner {
		return apperror.Forbidden("you do not own this quiz")
	}

	if err := s.quizRepo.DeleteCascade(ctx, quizID); err != nil {
		return apperror.Internal("delete quiz", err)
	}
	if err := s.rdb.Del(ctx, config.CacheKey.QuizQuestionsKey(quizID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Msg("quiz cache invalidation failed")
	}

	s.log.Info().Str("quiz_id", quizID.String()).Msg("Quiz deleted")
	return nil
}

// IsOwner reports quiz ownership, translating a missing quiz to not found.
func (s *QuizService) IsOwner(ctx context.Context, quizID, userID uuid.UUID) (bool, error) {
	if _, err := s.Get(ctx, quizID); err != nil {
		return false, err
	}
	owner, err := s.quizRepo.IsOwner(ctx, quizID, userID)
	if err != nil {
		return false, apperror.Internal("check ownership", err)
	}
	return owner, nil
}

// validateQuestion enforces the per-type shape of a question payload.
func validateQuestion(q model.CreateQuestionRequest) error {
	if q.Type == model.QuestionTypeMatching {
		if q.MatchingConfig == nil {
			return errors.New("matching needs a config")
		}
		return validateMatchingConfig(q.MatchingConfig)
	}
	return validateVariantSet(q.Type, q.Variants)
}

// validateVariantSet enforces the per-type shape of an answer-option set.
// Shared between quiz creation and later variant replacement so an edit
// cannot smuggle in a set the create path would have rejected.
func validateVariantSet(t model.QuestionType, entries []model.VariantEntryRequest) error {
	switch t {
	case model.QuestionTypeMultichoice:
		if len(entries) < 2 {
			return errors.New("multichoice needs at least two options")
		}
		if countRight(entries) == 0 {
			return errors.New("multichoice needs at least one correct option")
		}
	case model.QuestionTypeTrueFalse:
		if len(entries) != 2 {
			return errors.New("truefalse needs exactly two options")
		}
		if countRight(entries) != 1 {
			return errors.New("truefalse needs exactly one correct option")
		}
	case model.QuestionTypeNumerical:
		if len(entries) != 1 {
			return errors.New("numerical needs exactly one stored value")
		}
		if !entries[0].IsRight {
			return errors.New("the numerical stored value must be marked correct")
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(entries[0].Text), 64); err != nil {
			return errors.New("numerical stored value must be a number")
		}
	case model.QuestionTypeShortAnswer, model.QuestionTypeEssay, model.QuestionTypeDescription:
		if len(entries) != 0 {
			return errors.New("this type does not take options")
		}
	default:
		return fmt.Errorf("unknown question type %q", t)
	}
	return nil
}

// validateMatchingConfig checks that every correct pair references existing
// items and that ids within each column are unique.
func validateMatchingConfig(cfg *model.MatchingConfig) error {
	if len(cfg.LeftItems) == 0 || len(cfg.RightItems) == 0 {
		return errors.New("matching needs items in both columns")
	}
	if len(cfg.CorrectPairs) == 0 {
		return errors.New("matching needs at least one correct pair")
	}
	left := make(map[string]bool, len(cfg.LeftItems))
	for _, it := range cfg.LeftItems {
		if it.ID == "" {
			return errors.New("left item has an empty id")
		}
		if left[it.ID] {
			return fmt.Errorf("duplicate left item id %q", it.ID)
		}
		left[it.ID] = true
	}
	right := make(map[string]bool, len(cfg.RightItems))
	for _, it := range cfg.RightItems {
		if it.ID == "" {
			return errors.New("right item has an empty id")
		}
		if right[it.ID] {
			return fmt.Errorf("duplicate right item id %q", it.ID)
		}
		right[it.ID] = true
	}
	seen := make(map[string]bool, len(cfg.CorrectPairs))
	for _, p := range cfg.CorrectPairs {
		if !left[p.LeftID] {
			return fmt.Errorf("pair references unknown left id %q", p.LeftID)
		}
		if !right[p.RightID] {
			return fmt.Errorf("pair references unknown right id %q", p.RightID)
		}
		key := p.LeftID + ":" + p.RightID
		if seen[key] {
			return fmt.Errorf("duplicate pair %s", key)
		}
		seen[key] = true
	}
	return nil
}

// remintMatchingConfig rebuilds a matching config with server-minted item
// ids, remapping the correct pairs onto them. Stored configs never keep the
// ids the client sent: a replaced key must retire its old ids so picks
// recorded against the previous config cannot accidentally match the new
// one.
func remintMatchingConfig(cfg *model.MatchingConfig) *model.MatchingConfig {
	leftIDs := make(map[string]string, len(cfg.LeftItems))
	rightIDs := make(map[string]string, len(cfg.RightItems))
	out := &model.MatchingConfig{
		LeftItems:    make([]model.MatchingItem, 0, len(cfg.LeftItems)),
		RightItems:   make([]model.MatchingItem, 0, len(cfg.RightItems)),
		CorrectPairs: make([]model.MatchingPair, 0, len(cfg.CorrectPairs)),
	}
	for _, it := range cfg.LeftItems {
		id := uuid.NewString()
		leftIDs[it.ID] = id
		out.LeftItems = append(out.LeftItems, model.MatchingItem{ID: id, Text: it.Text})
	}
	for _, it := range cfg.RightItems {
		id := uuid.NewString()
		rightIDs[it.ID] = id
		out.RightItems = append(out.RightItems, model.MatchingItem{ID: id, Text: it.Text})
	}
	for _, p := range cfg.CorrectPairs {
		out.CorrectPairs = append(out.CorrectPairs, model.MatchingPair{
			LeftID:       leftIDs[p.LeftID],
			RightID:      rightIDs[p.RightID],
			ExplainRight: p.ExplainRight,
			ExplainWrong: p.ExplainWrong,
		})
	}
	return out
}

func countRight(entries []model.VariantEntryRequest) int {
	n := 0
	for _, e := range entries {
		if e.IsRight {
			n++
		}
	}
	return n
}
