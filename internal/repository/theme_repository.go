package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizora/quizora-backend/internal/model"
)

// ThemeRepository handles theme and summary data access.
type ThemeRepository struct {
	pool *pgxpool.Pool
}

// NewThemeRepository creates a new ThemeRepository.
func NewThemeRepository(pool *pgxpool.Pool) *ThemeRepository {
	return &ThemeRepository{pool: pool}
}

// ListBySubject returns a subject's themes ordered by name.
func (r *ThemeRepository) ListBySubject(ctx context.Context, subjectID int) ([]model.Theme, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, subject_id, name, description
		 FROM themes WHERE subject_id = $1 ORDER BY name`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var themes []model.Theme
	for rows.Next() {
		var t model.Theme
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

// GetByID retrieves a theme.
func (r *ThemeRepository) GetByID(ctx context.Context, id int) (*model.Theme, error) {
	t := &model.Theme{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject_id, name, description FROM themes WHERE id = $1`, id,
	).Scan(&t.ID, &t.SubjectID, &t.Name, &t.Description)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Create inserts a new theme.
func (r *ThemeRepository) Create(ctx context.Context, t *model.Theme) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO themes (subject_id, name, description)
		 VALUES ($1, $2, $3) RETURNING id`,
		t.SubjectID, t.Name, t.Description,
	).Scan(&t.ID)
}

// Delete removes a theme.
func (r *ThemeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM themes WHERE id = $1`, id)
	return err
}

// ListSummaries returns a theme's study summaries.
func (r *ThemeRepository) ListSummaries(ctx context.Context, themeID int) ([]model.Summary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, theme_id, name, content
		 FROM summaries WHERE theme_id = $1 ORDER BY name`, themeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.Summary
	for rows.Next() {
		var s model.Summary
		if err := rows.Scan(&s.ID, &s.ThemeID, &s.Name, &s.Content); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// CreateSummary inserts a study summary under a theme.
func (r *ThemeRepository) CreateSummary(ctx context.Context, s *model.Summary) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO summaries (theme_id, name, content)
		 VALUES ($1, $2, $3) RETURNING id`,
		s.ThemeID, s.Name, s.Content,
	).Scan(&s.ID)
}

// DeleteSummary removes a study summary.
func (r *ThemeRepository) DeleteSummary(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM summaries WHERE id = $1`, id)
	return err
}
