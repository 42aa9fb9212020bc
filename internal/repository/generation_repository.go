package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizora/quizora-backend/internal/model"
)

// GenerationRepository tracks async quiz-generation jobs.
type GenerationRepository struct {
	pool *pgxpool.Pool
}

// NewGenerationRepository creates a new GenerationRepository.
func NewGenerationRepository(pool *pgxpool.Pool) *GenerationRepository {
	return &GenerationRepository{pool: pool}
}

// Create inserts a job in queued state.
func (r *GenerationRepository) Create(ctx context.Context, j *model.GenerationJob) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO generation_jobs (user_id, theme_id, question_count, prompt, file_id, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		j.UserID, j.ThemeID, j.QuestionCount, j.Prompt, j.FileID, j.Status,
	).Scan(&j.ID, &j.CreatedAt, &j.UpdatedAt)
}

// GetByID retrieves a job.
func (r *GenerationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GenerationJob, error) {
	j := &model.GenerationJob{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, theme_id, question_count, prompt, file_id,
		        status, error, quiz_id, created_at, updated_at
		 FROM generation_jobs WHERE id = $1`, id,
	).Scan(&j.ID, &j.UserID, &j.ThemeID, &j.QuestionCount, &j.Prompt, &j.FileID,
		&j.Status, &j.Error, &j.QuizID, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// ListByUser returns a user's jobs, newest first.
func (r *GenerationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.GenerationJob, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, theme_id, question_count, prompt, file_id,
		        status, error, quiz_id, created_at, updated_at
		 FROM generation_jobs WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.GenerationJob
	for rows.Next() {
		var j model.GenerationJob
		if err := rows.Scan(&j.ID, &j.UserID, &j.ThemeID, &j.QuestionCount, &j.Prompt, &j.FileID,
			&j.Status, &j.Error, &j.QuizID, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// SetStatus moves a job to a new status, optionally recording an error
// message.
func (r *GenerationRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.GenerationStatus, errMsg string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE generation_jobs SET status = $1, error = $2, updated_at = NOW()
		 WHERE id = $3`,
		status, errMsg, id)
	return err
}

// SetResult marks a job succeeded and links the produced quiz.
func (r *GenerationRepository) SetResult(ctx context.Context, id, quizID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE generation_jobs SET status = $1, quiz_id = $2, updated_at = NOW()
		 WHERE id = $3`,
		model.GenerationStatusSucceeded, quizID, id)
	return err
}
