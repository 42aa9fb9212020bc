package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizora/quizora-backend/internal/model"
)

// QuestionRepository handles question, answer-option and matching-config
// data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// GetByID retrieves a question.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, multi_answer, text FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.Type, &q.MultiAnswer, &q.Text)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Update applies partial edits to a question.
func (r *QuestionRepository) Update(ctx context.Context, id uuid.UUID, req model.UpdateQuestionRequest) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET
		   text = COALESCE(NULLIF($1, ''), text),
		   type = COALESCE(NULLIF($2, ''), type),
		   multi_answer = COALESCE($3, multi_answer)
		 WHERE id = $4`,
		req.Text, string(req.Type), req.MultiAnswer, id)
	return err
}

// ListVariants returns a question's answer options joined with their link
// rows, in insertion order.
func (r *QuestionRepository) ListVariants(ctx context.Context, questionID uuid.UUID) ([]model.VariantWithLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT v.id, v.text, v.explain_right, v.explain_wrong, v.is_right,
		        qv.id, qv.question_id
		 FROM variants v
		 JOIN questions_variants qv ON qv.variant_id = v.id
		 WHERE qv.question_id = $1
		 ORDER BY qv.id`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVariantsWithLink(rows)
}

// ListVariantsForQuestions returns the options for a whole question set in
// one query, keyed by question id.
func (r *QuestionRepository) ListVariantsForQuestions(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]model.VariantWithLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT v.id, v.text, v.explain_right, v.explain_wrong, v.is_right,
		        qv.id, qv.question_id
		 FROM variants v
		 JOIN questions_variants qv ON qv.variant_id = v.id
		 WHERE qv.question_id = ANY($1)
		 ORDER BY qv.id`, questionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all, err := scanVariantsWithLink(rows)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[uuid.UUID][]model.VariantWithLink, len(questionIDs))
	for _, v := range all {
		byQuestion[v.QuestionID] = append(byQuestion[v.QuestionID], v)
	}
	return byQuestion, nil
}

func scanVariantsWithLink(rows pgx.Rows) ([]model.VariantWithLink, error) {
	var variants []model.VariantWithLink
	for rows.Next() {
		var v model.VariantWithLink
		if err := rows.Scan(&v.ID, &v.Text, &v.ExplainRight, &v.ExplainWrong, &v.IsRight,
			&v.QuestionVariantID, &v.QuestionID); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

// ReplaceVariants swaps a question's full answer-option set in one
// transaction. Old link rows disappear, which invalidates stale picks, and
// variants left without any link are garbage collected.
func (r *QuestionRepository) ReplaceVariants(ctx context.Context, questionID uuid.UUID, entries []model.VariantEntryRequest, withKey bool) ([]model.VariantWithLink, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Submission history references link rows, so picks go first.
	_, err = tx.Exec(ctx,
		`DELETE FROM chosen_variants cv
		 USING questions_variants qv
		 WHERE cv.question_variant_id = qv.id AND qv.question_id = $1`,
		questionID)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx,
		`DELETE FROM questions_variants WHERE question_id = $1`, questionID)
	if err != nil {
		return nil, err
	}

	var created []model.VariantWithLink
	for _, e := range entries {
		var isRight *bool
		if withKey {
			right := e.IsRight
			isRight = &right
		}
		v := model.VariantWithLink{QuestionID: questionID}
		v.Text, v.ExplainRight, v.ExplainWrong, v.IsRight = e.Text, e.ExplainRight, e.ExplainWrong, isRight
		err = tx.QueryRow(ctx,
			`INSERT INTO variants (text, explain_right, explain_wrong, is_right)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			v.Text, v.ExplainRight, v.ExplainWrong, v.IsRight,
		).Scan(&v.ID)
		if err != nil {
			return nil, err
		}
		err = tx.QueryRow(ctx,
			`INSERT INTO questions_variants (question_id, variant_id)
			 VALUES ($1, $2) RETURNING id`,
			questionID, v.ID,
		).Scan(&v.QuestionVariantID)
		if err != nil {
			return nil, err
		}
		created = append(created, v)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM variants v
		 WHERE NOT EXISTS (SELECT 1 FROM questions_variants qv WHERE qv.variant_id = v.id)`)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetMatchingConfig loads a matching question's answer key. Returns
// pgx.ErrNoRows when none is stored.
func (r *QuestionRepository) GetMatchingConfig(ctx context.Context, questionID uuid.UUID) (*model.MatchingConfig, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT config FROM matching_configs WHERE question_id = $1`, questionID,
	).Scan(&raw)
	if err != nil {
		return nil, err
	}
	cfg := &model.MatchingConfig{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReplaceMatchingConfig upserts a matching question's answer key.
func (r *QuestionRepository) ReplaceMatchingConfig(ctx context.Context, questionID uuid.UUID, cfg *model.MatchingConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO matching_configs (question_id, config)
		 VALUES ($1, $2)
		 ON CONFLICT (question_id) DO UPDATE SET config = EXCLUDED.config`,
		questionID, raw)
	return err
}
