package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/config"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/repository"
	"github.com/quizora/quizora-backend/internal/response"
)

// Allowed attachment MIME types with their stored extensions.
var allowedMIMETypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
	"text/plain":      ".txt",
}

// FileService handles attachment uploads, downloads and references. Files
// land on the local disk under a UUID name; metadata lives in Postgres.
type FileService struct {
	cfg      *config.Config
	fileRepo *repository.FileRepository
	log      zerolog.Logger
}

// NewFileService creates a new FileService.
func NewFileService(cfg *config.Config, fileRepo *repository.FileRepository, log zerolog.Logger) *FileService {
	return &FileService{
		cfg:      cfg,
		fileRepo: fileRepo,
		log:      log.With().Str("component", "file_service").Logger(),
	}
}

// SaveUpload validates, stores and records an uploaded file.
func (s *FileService) SaveUpload(ctx context.Context, ownerID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*model.File, error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return nil, apperror.Validationf("unsupported file type %s (allowed: %s)",
			contentType, strings.Join(allowedTypes(), ", ")).
			WithCode(string(response.ErrUnsupportedFile))
	}
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, apperror.Validationf("file is %d bytes, limit is %d",
			header.Size, s.cfg.MaxUploadBytes).
			WithCode(string(response.ErrFileTooLarge))
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, apperror.Internal("create upload dir", err)
	}

	filename := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, filename)

	dst, err := os.Create(destPath)
	if err != nil {
		return nil, apperror.Internal("create file", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		os.Remove(destPath)
		return nil, apperror.Internal("write file", err)
	}

	f := &model.File{
		Name:     header.Filename,
		MimeType: contentType,
		Size:     written,
		Path:     filename,
		OwnerID:  ownerID,
	}
	if err := s.fileRepo.Create(ctx, f); err != nil {
		os.Remove(destPath)
		return nil, apperror.Internal("record file", err)
	}

	s.log.Info().
		Str("file_id", f.ID.String()).
		Str("mime_type", contentType).
		Int64("size", written).
		Msg("File uploaded")
	return f, nil
}

// Get returns a file's metadata.
func (s *FileService) Get(ctx context.Context, id uuid.UUID) (*model.File, error) {
	f, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("file not found")
		}
		return nil, apperror.Internal("load file", err)
	}
	return f, nil
}

// DiskPath resolves the absolute path of a stored file, refusing names
// that would escape the upload directory.
func (s *FileService) DiskPath(f *model.File) (string, error) {
	cleaned := filepath.Clean(f.Path)
	if cleaned != f.Path || strings.Contains(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", apperror.Internal(fmt.Sprintf("stored path %q is not safe", f.Path), nil)
	}
	return filepath.Join(s.cfg.UploadDir, cleaned), nil
}

// Attach references a file from a subject, theme or quiz. Exactly one
// target must be given.
func (s *FileService) Attach(ctx context.Context, fileID uuid.UUID, subjectID, themeID *int, quizID *uuid.UUID) (*model.FileReference, error) {
	targets := 0
	if subjectID != nil {
		targets++
	}
	if themeID != nil {
		targets++
	}
	if quizID != nil {
		targets++
	}
	if targets != 1 {
		return nil, apperror.Validation("exactly one of subject_id, theme_id, quiz_id is required")
	}

	if _, err := s.Get(ctx, fileID); err != nil {
		return nil, err
	}

	ref := &model.FileReference{FileID: fileID, SubjectID: subjectID, ThemeID: themeID, QuizID: quizID}
	if err := s.fileRepo.AddReference(ctx, ref); err != nil {
		return nil, apperror.Internal("add file reference", err)
	}
	return ref, nil
}

// ListByQuiz returns a quiz's attachments.
func (s *FileService) ListByQuiz(ctx context.Context, quizID uuid.UUID) ([]model.File, error) {
	files, err := s.fileRepo.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, apperror.Internal("list files", err)
	}
	if files == nil {
		files = []model.File{}
	}
	return files, nil
}

// ListByTheme returns a theme's attachments.
func (s *FileService) ListByTheme(ctx context.Context, themeID int) ([]model.File, error) {
	files, err := s.fileRepo.ListByTheme(ctx, themeID)
	if err != nil {
		return nil, apperror.Internal("list files", err)
	}
	if files == nil {
		files = []model.File{}
	}
	return files, nil
}

// Delete removes a file's metadata, references and bytes. Only the owner
// may delete.
func (s *FileService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if f.OwnerID != userID {
		return apperror.Forbidden("this file belongs to another user")
	}
	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return apperror.Internal("delete file", err)
	}
	if path, err := s.DiskPath(f); err == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("file_id", id.String()).Msg("stored bytes not removed")
		}
	}
	return nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
