package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizora/quizora-backend/internal/middleware"
	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/service"
	"github.com/quizora/quizora-backend/internal/validator"
)

// FileHandler handles attachment upload, download and reference endpoints.
type FileHandler struct {
	fileService *service.FileService
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(fileService *service.FileService) *FileHandler {
	return &FileHandler{fileService: fileService}
}

// Upload godoc
// POST /api/v1/files
// Accepts one multipart file under the "file" field.
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	saved, err := h.fileService.SaveUpload(c.Request.Context(), middleware.GetUserID(c), file, header)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"file": saved})
}

// Download godoc
// GET /api/v1/files/:file_id
// Streams the stored bytes with the original name and type.
func (h *FileHandler) Download(c *gin.Context) {
	id, ok := uuidParam(c, "file_id")
	if !ok {
		return
	}

	f, err := h.fileService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	path, err := h.fileService.DiskPath(f)
	if err != nil {
		response.FromError(c, err)
		return
	}

	c.Header("Content-Type", f.MimeType)
	c.FileAttachment(path, f.Name)
}

type attachRequest struct {
	SubjectID *int       `json:"subject_id" binding:"omitempty,min=1"`
	ThemeID   *int       `json:"theme_id" binding:"omitempty,min=1"`
	QuizID    *uuid.UUID `json:"quiz_id" binding:"omitempty"`
}

// Attach godoc
// POST /api/v1/files/:file_id/references
// Ties a file to exactly one subject, theme or quiz.
func (h *FileHandler) Attach(c *gin.Context) {
	id, ok := uuidParam(c, "file_id")
	if !ok {
		return
	}
	var req attachRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ref, err := h.fileService.Attach(c.Request.Context(), id, req.SubjectID, req.ThemeID, req.QuizID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reference": ref})
}

// Delete godoc
// DELETE /api/v1/files/:file_id
func (h *FileHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "file_id")
	if !ok {
		return
	}
	if err := h.fileService.Delete(c.Request.Context(), middleware.GetUserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
