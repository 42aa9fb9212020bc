package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizora/quizora-backend/internal/grading"
	"github.com/quizora/quizora-backend/internal/model"
)

// ErrSessionLimit is returned by CreateIfUnderLimit when the quiz's
// session cap is already spent for this user.
var ErrSessionLimit = errors.New("session limit reached")

// ErrSessionClosed is returned by SaveGrade when the target session has
// been ended between grading and the write.
var ErrSessionClosed = errors.New("session already ended")

// SessionRepository handles quiz session, pick and submission data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateIfUnderLimit starts a session only while the user's count of
// running sessions for the quiz is below its cap; ending a session frees
// its slot. The quiz row is locked first so two racing starts serialize
// and the count-then-insert stays atomic. A cap of zero means unlimited.
func (r *SessionRepository) CreateIfUnderLimit(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizSession, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var maxSessions int
	err = tx.QueryRow(ctx,
		`SELECT max_sessions FROM quizzes WHERE id = $1 FOR UPDATE`, quizID,
	).Scan(&maxSessions)
	if err != nil {
		return nil, err
	}

	var active int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_sessions
		 WHERE quiz_id = $1 AND user_id = $2 AND ended_at IS NULL`,
		quizID, userID,
	).Scan(&active)
	if err != nil {
		return nil, err
	}
	if maxSessions > 0 && active >= maxSessions {
		return nil, ErrSessionLimit
	}

	s := &model.QuizSession{UserID: userID, QuizID: quizID}
	err = tx.QueryRow(ctx,
		`INSERT INTO quiz_sessions (user_id, quiz_id)
		 VALUES ($1, $2) RETURNING id, created_at`,
		userID, quizID,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// GetActive returns the user's unique unended session for a quiz. Returns
// pgx.ErrNoRows when there is none — and also when there is more than one,
// because two concurrent attempts mean the stored state is inconsistent
// and no row can be trusted as "the" attempt.
func (r *SessionRepository) GetActive(ctx context.Context, userID, quizID uuid.UUID) (*model.QuizSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, quiz_id, created_at, ended_at
		 FROM quiz_sessions
		 WHERE user_id = $1 AND quiz_id = $2 AND ended_at IS NULL
		 LIMIT 2`,
		userID, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.QuizSession
	for rows.Next() {
		var s model.QuizSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.QuizID, &s.CreatedAt, &s.EndedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) != 1 {
		return nil, pgx.ErrNoRows
	}
	return &sessions[0], nil
}

// GetByID retrieves a session regardless of state.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuizSession, error) {
	s := &model.QuizSession{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, quiz_id, created_at, ended_at
		 FROM quiz_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.QuizID, &s.CreatedAt, &s.EndedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// End stamps a session finished. Returns false when the session was
// already ended, without touching the original stamp.
func (r *SessionRepository) End(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE quiz_sessions SET ended_at = NOW()
		 WHERE id = $1 AND ended_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ListByQuiz returns every session of a quiz, newest first.
func (r *SessionRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.QuizSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, quiz_id, created_at, ended_at
		 FROM quiz_sessions WHERE quiz_id = $1
		 ORDER BY created_at DESC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.QuizSession
	for rows.Next() {
		var s model.QuizSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.QuizID, &s.CreatedAt, &s.EndedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// SaveGrade appends a graded answer atomically: picks and the verdict land
// in one transaction or not at all. Earlier submissions of the same
// question are never touched — the recorded history is append-only, and a
// re-submission is simply a newer entry. The session is locked and checked
// first; writing into an ended session returns ErrSessionClosed.
func (r *SessionRepository) SaveGrade(ctx context.Context, sessionID, questionID uuid.UUID, picks []grading.Pick, isRight *bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var endedAt *time.Time
	err = tx.QueryRow(ctx,
		`SELECT ended_at FROM quiz_sessions WHERE id = $1 FOR UPDATE`, sessionID,
	).Scan(&endedAt)
	if err != nil {
		return err
	}
	if endedAt != nil {
		return ErrSessionClosed
	}

	for _, p := range picks {
		_, err = tx.Exec(ctx,
			`INSERT INTO chosen_variants (session_id, question_variant_id, answer_text, is_right)
			 VALUES ($1, $2, $3, $4)`,
			sessionID, p.QuestionVariantID, p.AnswerText, p.IsRight)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO session_submits (session_id, question_id, is_right)
		 VALUES ($1, $2, $3)`,
		sessionID, questionID, isRight)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListPicks returns every answer pick recorded inside a session, joined
// with the question each pick belongs to, in submission order.
func (r *SessionRepository) ListPicks(ctx context.Context, sessionID uuid.UUID) ([]model.ChosenVariant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT cv.id, cv.session_id, qv.question_id, cv.question_variant_id,
		        cv.answer_text, cv.is_right, cv.created_at
		 FROM chosen_variants cv
		 JOIN questions_variants qv ON qv.id = cv.question_variant_id
		 WHERE cv.session_id = $1
		 ORDER BY cv.created_at, cv.id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []model.ChosenVariant
	for rows.Next() {
		var p model.ChosenVariant
		if err := rows.Scan(&p.ID, &p.SessionID, &p.QuestionID, &p.QuestionVariantID,
			&p.AnswerText, &p.IsRight, &p.CreatedAt); err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

// ListSubmits returns a session's per-question verdicts in submission
// order. The history is append-only, so a re-answered question shows up
// once per attempt; the newest entry is the one that counts.
func (r *SessionRepository) ListSubmits(ctx context.Context, sessionID uuid.UUID) ([]model.SessionSubmit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, question_id, is_right, created_at
		 FROM session_submits WHERE session_id = $1
		 ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submits []model.SessionSubmit
	for rows.Next() {
		var s model.SessionSubmit
		if err := rows.Scan(&s.ID, &s.SessionID, &s.QuestionID, &s.IsRight, &s.CreatedAt); err != nil {
			return nil, err
		}
		submits = append(submits, s)
	}
	return submits, rows.Err()
}
