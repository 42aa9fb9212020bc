package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/config"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/repository"
	"github.com/quizora/quizora-backend/internal/response"
)

// EventPublisher pushes live events to subscribed clients. Satisfied by the
// websocket hub.
type EventPublisher interface {
	Publish(topic string, event string, payload interface{})
}

// SessionService handles the quiz session lifecycle.
type SessionService struct {
	sessionRepo *repository.SessionRepository
	quizRepo    *repository.QuizRepository
	events      EventPublisher
	log         zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo *repository.SessionRepository, quizRepo *repository.QuizRepository, events EventPublisher, log zerolog.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		quizRepo:    quizRepo,
		events:      events,
		log:         log.With().Str("component", "session_service").Logger(),
	}
}

// Start opens a session for the user if the quiz's cap allows it. The cap
// bounds concurrently running sessions per user; ending a session frees
// its slot, and a cap of zero means unlimited.
func (s *SessionService) Start(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizSession, error) {
	session, err := s.sessionRepo.CreateIfUnderLimit(ctx, userID, quizID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperror.NotFound("quiz not found")
		case errors.Is(err, repository.ErrSessionLimit):
			return nil, apperror.Conflict("the session limit for this quiz has been reached").
				WithCode(string(response.ErrSessionLimitReached))
		default:
			return nil, apperror.Internal("start session", err)
		}
	}

	s.publish(quizID, "session_started", session)
	s.log.Info().
		Str("session_id", session.ID.String()).
		Str("quiz_id", quizID.String()).
		Msg("Session started")
	return session, nil
}

// Active returns the user's running session for a quiz.
func (s *SessionService) Active(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizSession, error) {
	session, err := s.sessionRepo.GetActive(ctx, userID, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("no active session for this quiz").
				WithCode(string(response.ErrNoActiveSession))
		}
		return nil, apperror.Internal("load session", err)
	}
	return session, nil
}

// End finishes a session. Only its owner may end it, and ending twice is a
// conflict rather than a silent overwrite of the original end stamp.
func (s *SessionService) End(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("session not found")
		}
		return nil, apperror.Internal("load session", err)
	}
	if session.UserID != userID {
		return nil, apperror.Forbidden("this session belongs to another user")
	}

	ended, err := s.sessionRepo.End(ctx, sessionID)
	if err != nil {
		return nil, apperror.Internal("end session", err)
	}
	if !ended {
		return nil, apperror.Conflict("session has already ended").
			WithCode(string(response.ErrSessionEnded))
	}

	result, err := s.Result(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	s.publish(session.QuizID, "session_ended", result)
	s.log.Info().Str("session_id", sessionID.String()).Msg("Session ended")
	return result, nil
}

// Result aggregates a session's verdicts. The submission history is
// append-only, so a re-answered question appears several times; only its
// latest verdict counts toward the tally, while the full trail stays in
// Submissions.
func (s *SessionService) Result(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("session not found")
		}
		return nil, apperror.Internal("load session", err)
	}
	if session.UserID != userID {
		return nil, apperror.Forbidden("this session belongs to another user")
	}

	submits, err := s.sessionRepo.ListSubmits(ctx, sessionID)
	if err != nil {
		return nil, apperror.Internal("load submissions", err)
	}

	// Submits arrive in submission order, so the map ends up holding each
	// question's newest verdict.
	latest := make(map[uuid.UUID]*bool, len(submits))
	for _, sub := range submits {
		latest[sub.QuestionID] = sub.IsRight
	}

	result := &model.SessionResult{Session: *session, Submissions: submits}
	for _, verdict := range latest {
		result.Total++
		switch {
		case verdict == nil:
			result.Unreviewed++
		case *verdict:
			result.Correct++
		default:
			result.Wrong++
		}
	}
	if result.Submissions == nil {
		result.Submissions = []model.SessionSubmit{}
	}
	return result, nil
}

// History returns a session's full recorded answer trail: every submit
// entry and every pick behind it. Readable by the session's owner and by
// the quiz's owner.
func (s *SessionService) History(ctx context.Context, userID, sessionID uuid.UUID) (*model.SessionHistory, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("session not found")
		}
		return nil, apperror.Internal("load session", err)
	}
	if session.UserID != userID {
		owner, err := s.quizRepo.IsOwner(ctx, session.QuizID, userID)
		if err != nil {
			return nil, apperror.Internal("check ownership", err)
		}
		if !owner {
			return nil, apperror.Forbidden("this session belongs to another user")
		}
	}

	submits, err := s.sessionRepo.ListSubmits(ctx, sessionID)
	if err != nil {
		return nil, apperror.Internal("load submissions", err)
	}
	picks, err := s.sessionRepo.ListPicks(ctx, sessionID)
	if err != nil {
		return nil, apperror.Internal("load picks", err)
	}

	history := &model.SessionHistory{Session: *session, Submits: submits, Picks: picks}
	if history.Submits == nil {
		history.Submits = []model.SessionSubmit{}
	}
	if history.Picks == nil {
		history.Picks = []model.ChosenVariant{}
	}
	return history, nil
}

// ListByQuiz returns every session of a quiz for its owner's review.
func (s *SessionService) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.QuizSession, error) {
	sessions, err := s.sessionRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, apperror.Internal("list sessions", err)
	}
	if sessions == nil {
		sessions = []model.QuizSession{}
	}
	return sessions, nil
}

func (s *SessionService) publish(quizID uuid.UUID, event string, payload interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(config.CacheKey.SessionEventsChannel(quizID.String()), event, payload)
}
