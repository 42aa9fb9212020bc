package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quizora/quizora-backend/internal/model"
)

// FileRepository handles file metadata and reference data access.
type FileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository creates a new FileRepository.
func NewFileRepository(pool *pgxpool.Pool) *FileRepository {
	return &FileRepository{pool: pool}
}

// Create inserts a file metadata row.
func (r *FileRepository) Create(ctx context.Context, f *model.File) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO files (name, mime_type, size, path, owner_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		f.Name, f.MimeType, f.Size, f.Path, f.OwnerID,
	).Scan(&f.ID, &f.CreatedAt)
}

// GetByID retrieves a file metadata row.
func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.File, error) {
	f := &model.File{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, mime_type, size, path, owner_id, created_at
		 FROM files WHERE id = $1`, id,
	).Scan(&f.ID, &f.Name, &f.MimeType, &f.Size, &f.Path, &f.OwnerID, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// AddReference ties a file to a subject, theme or quiz.
func (r *FileRepository) AddReference(ctx context.Context, ref *model.FileReference) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO file_references (file_id, subject_id, theme_id, quiz_id)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		ref.FileID, ref.SubjectID, ref.ThemeID, ref.QuizID,
	).Scan(&ref.ID)
}

// ListByQuiz returns the files attached to a quiz.
func (r *FileRepository) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.File, error) {
	return r.listByReference(ctx,
		`SELECT f.id, f.name, f.mime_type, f.size, f.path, f.owner_id, f.created_at
		 FROM files f
		 JOIN file_references fr ON fr.file_id = f.id
		 WHERE fr.quiz_id = $1
		 ORDER BY f.created_at`, quizID)
}

// ListByTheme returns the files attached to a theme.
func (r *FileRepository) ListByTheme(ctx context.Context, themeID int) ([]model.File, error) {
	return r.listByReference(ctx,
		`SELECT f.id, f.name, f.mime_type, f.size, f.path, f.owner_id, f.created_at
		 FROM files f
		 JOIN file_references fr ON fr.file_id = f.id
		 WHERE fr.theme_id = $1
		 ORDER BY f.created_at`, themeID)
}

func (r *FileRepository) listByReference(ctx context.Context, query string, arg interface{}) ([]model.File, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []model.File
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.Name, &f.MimeType, &f.Size, &f.Path, &f.OwnerID, &f.CreatedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Delete removes a file row and its references.
func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM file_references WHERE file_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM files WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
