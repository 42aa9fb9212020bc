package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizora/quizora-backend/internal/model"
)

// QuizRepository handles quiz data access, including the transactional
// create and the cascading delete.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// GetByID retrieves a quiz by its UUID.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, name, description, max_sessions, theme_id
		 FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.Type, &q.Name, &q.Description, &q.MaxSessions, &q.ThemeID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListByTheme returns a theme's quizzes with their question counts.
func (r *QuizRepository) ListByTheme(ctx context.Context, themeID int) ([]model.QuizWithCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.type, q.name, q.description, q.max_sessions, q.theme_id,
		        COUNT(qq.question_id)
		 FROM quizzes q
		 LEFT JOIN quizzes_questions qq ON qq.quiz_id = q.id
		 WHERE q.theme_id = $1
		 GROUP BY q.id
		 ORDER BY q.name`, themeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuizzesWithCount(rows)
}

// ListByOwner returns the quizzes a user owns, with question counts.
func (r *QuizRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.QuizWithCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.type, q.name, q.description, q.max_sessions, q.theme_id,
		        COUNT(qq.question_id)
		 FROM quizzes q
		 JOIN users_quizzes uq ON uq.quiz_id = q.id
		 LEFT JOIN quizzes_questions qq ON qq.quiz_id = q.id
		 WHERE uq.user_id = $1
		 GROUP BY q.id
		 ORDER BY q.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuizzesWithCount(rows)
}

func scanQuizzesWithCount(rows pgx.Rows) ([]model.QuizWithCount, error) {
	var quizzes []model.QuizWithCount
	for rows.Next() {
		var q model.QuizWithCount
		if err := rows.Scan(&q.ID, &q.Type, &q.Name, &q.Description, &q.MaxSessions, &q.ThemeID, &q.QuestionCount); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// IsOwner reports whether the user owns the quiz.
func (r *QuizRepository) IsOwner(ctx context.Context, quizID, userID uuid.UUID) (bool, error) {
	var owner bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users_quizzes WHERE quiz_id = $1 AND user_id = $2)`,
		quizID, userID,
	).Scan(&owner)
	return owner, err
}

// Create inserts a quiz together with its full question set in one
// transaction: questions, their answer options, option links, matching
// configs and the ownership row. Nothing is visible until commit.
func (r *QuizRepository) Create(ctx context.Context, ownerID uuid.UUID, q *model.Quiz, questions []model.CreateQuestionRequest) ([]uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (type, name, description, max_sessions, theme_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		q.Type, q.Name, q.Description, q.MaxSessions, q.ThemeID,
	).Scan(&q.ID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users_quizzes (user_id, quiz_id) VALUES ($1, $2)`,
		ownerID, q.ID)
	if err != nil {
		return nil, err
	}

	questionIDs := make([]uuid.UUID, 0, len(questions))
	for position, cq := range questions {
		questionID, err := insertQuestion(ctx, tx, q.ID, position, cq)
		if err != nil {
			return nil, err
		}
		questionIDs = append(questionIDs, questionID)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return questionIDs, nil
}

// insertQuestion writes one question with its key material inside the
// caller's transaction. Free-text, numerical and matching questions get a
// single answer slot so submissions have a link row to hang off.
func insertQuestion(ctx context.Context, tx pgx.Tx, quizID uuid.UUID, position int, cq model.CreateQuestionRequest) (uuid.UUID, error) {
	var questionID uuid.UUID
	err := tx.QueryRow(ctx,
		`INSERT INTO questions (type, multi_answer, text)
		 VALUES ($1, $2, $3) RETURNING id`,
		cq.Type, cq.MultiAnswer, cq.Text,
	).Scan(&questionID)
	if err != nil {
		return uuid.Nil, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO quizzes_questions (quiz_id, question_id, position)
		 VALUES ($1, $2, $3)`,
		quizID, questionID, position)
	if err != nil {
		return uuid.Nil, err
	}

	switch cq.Type {
	case model.QuestionTypeMultichoice, model.QuestionTypeTrueFalse:
		for _, v := range cq.Variants {
			if err := insertVariant(ctx, tx, questionID, v.Text, v.ExplainRight, v.ExplainWrong, &v.IsRight); err != nil {
				return uuid.Nil, err
			}
		}
	case model.QuestionTypeNumerical:
		for _, v := range cq.Variants {
			right := true
			if err := insertVariant(ctx, tx, questionID, v.Text, v.ExplainRight, v.ExplainWrong, &right); err != nil {
				return uuid.Nil, err
			}
		}
	case model.QuestionTypeShortAnswer, model.QuestionTypeEssay, model.QuestionTypeMatching:
		if err := insertVariant(ctx, tx, questionID, "", "", "", nil); err != nil {
			return uuid.Nil, err
		}
	}

	if cq.Type == model.QuestionTypeMatching && cq.MatchingConfig != nil {
		raw, err := json.Marshal(cq.MatchingConfig)
		if err != nil {
			return uuid.Nil, err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO matching_configs (question_id, config) VALUES ($1, $2)`,
			questionID, raw)
		if err != nil {
			return uuid.Nil, err
		}
	}

	return questionID, nil
}

func insertVariant(ctx context.Context, tx pgx.Tx, questionID uuid.UUID, text, explainRight, explainWrong string, isRight *bool) error {
	var variantID uuid.UUID
	err := tx.QueryRow(ctx,
		`INSERT INTO variants (text, explain_right, explain_wrong, is_right)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		text, explainRight, explainWrong, isRight,
	).Scan(&variantID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO questions_variants (question_id, variant_id) VALUES ($1, $2)`,
		questionID, variantID)
	return err
}

// DeleteCascade removes a quiz and every row hanging off it, deepest
// references first so no step trips a foreign key. Shared questions
// linked to other quizzes survive; questions exclusive to this quiz are
// removed along with their variants.
func (r *QuizRepository) DeleteCascade(ctx context.Context, quizID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	steps := []string{
		`DELETE FROM session_submits ss
		 USING quiz_sessions s
		 WHERE ss.session_id = s.id AND s.quiz_id = $1`,
		`DELETE FROM chosen_variants cv
		 USING quiz_sessions s
		 WHERE cv.session_id = s.id AND s.quiz_id = $1`,
		`DELETE FROM quiz_sessions WHERE quiz_id = $1`,
		`DELETE FROM quizzes_questions WHERE quiz_id = $1`,
		`DELETE FROM users_quizzes WHERE quiz_id = $1`,
		`DELETE FROM file_references WHERE quiz_id = $1`,
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step, quizID); err != nil {
			return err
		}
	}

	// Questions no longer referenced by any quiz go too, matching configs
	// and option links first, then variants left without a link.
	orphanQuestions := `
		SELECT q.id FROM questions q
		WHERE NOT EXISTS (SELECT 1 FROM quizzes_questions qq WHERE qq.question_id = q.id)`
	cleanups := []string{
		`DELETE FROM matching_configs WHERE question_id IN (` + orphanQuestions + `)`,
		`DELETE FROM questions_variants WHERE question_id IN (` + orphanQuestions + `)`,
		`DELETE FROM questions q
		 WHERE NOT EXISTS (SELECT 1 FROM quizzes_questions qq WHERE qq.question_id = q.id)`,
		`DELETE FROM variants v
		 WHERE NOT EXISTS (SELECT 1 FROM questions_variants qv WHERE qv.variant_id = v.id)`,
	}
	for _, step := range cleanups {
		if _, err := tx.Exec(ctx, step); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, quizID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// QuestionIDs returns a quiz's question ids in stored order.
func (r *QuizRepository) QuestionIDs(ctx context.Context, quizID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id FROM quizzes_questions
		 WHERE quiz_id = $1 ORDER BY position`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ContainsQuestion reports whether a question belongs to a quiz.
func (r *QuizRepository) ContainsQuestion(ctx context.Context, quizID, questionID uuid.UUID) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quizzes_questions WHERE quiz_id = $1 AND question_id = $2)`,
		quizID, questionID,
	).Scan(&ok)
	return ok, err
}

// AddQuestion appends a new question (with its key material) to an
// existing quiz, at the next position.
func (r *QuizRepository) AddQuestion(ctx context.Context, quizID uuid.UUID, cq model.CreateQuestionRequest) (uuid.UUID, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback(ctx)

	var position int
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0)
		 FROM quizzes_questions WHERE quiz_id = $1`, quizID,
	).Scan(&position)
	if err != nil {
		return uuid.Nil, err
	}

	questionID, err := insertQuestion(ctx, tx, quizID, position, cq)
	if err != nil {
		return uuid.Nil, err
	}
	return questionID, tx.Commit(ctx)
}

// QuizzesContaining returns the ids of every quiz a question is linked
// into. Used to invalidate per-quiz caches after question edits.
func (r *QuizRepository) QuizzesContaining(ctx context.Context, questionID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT quiz_id FROM quizzes_questions WHERE question_id = $1`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
