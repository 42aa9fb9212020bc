package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/service"
	"github.com/quizora/quizora-backend/internal/validator"
)

// ThemeHandler handles theme, summary and theme-level quiz listing
// endpoints.
type ThemeHandler struct {
	themeService *service.ThemeService
	quizService  *service.QuizService
	fileService  *service.FileService
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(themeService *service.ThemeService, quizService *service.QuizService, fileService *service.FileService) *ThemeHandler {
	return &ThemeHandler{themeService: themeService, quizService: quizService, fileService: fileService}
}

// Get godoc
// GET /api/v1/themes/:theme_id
func (h *ThemeHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "theme_id")
	if !ok {
		return
	}
	theme, err := h.themeService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"theme": theme})
}

// Delete godoc
// DELETE /api/v1/themes/:theme_id
func (h *ThemeHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "theme_id")
	if !ok {
		return
	}
	if err := h.themeService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListQuizzes godoc
// GET /api/v1/themes/:theme_id/quizzes
func (h *ThemeHandler) ListQuizzes(c *gin.Context) {
	id, ok := intParam(c, "theme_id")
	if !ok {
		return
	}
	quizzes, err := h.quizService.ListByTheme(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// ListSummaries godoc
// GET /api/v1/themes/:theme_id/summaries
func (h *ThemeHandler) ListSummaries(c *gin.Context) {
	id, ok := intParam(c, "theme_id")
	if !ok {
		return
	}
	summaries, err := h.themeService.ListSummaries(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summaries": summaries})
}

type createSummaryRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Content string `json:"content" binding:"required,min=1"`
}

// CreateSummary godoc
// POST /api/v1/themes/:theme_id/summaries
func (h *ThemeHandler) CreateSummary(c *gin.Context) {
	id, ok := intParam(c, "theme_id")
	if !ok {
		return
	}
	var req createSummaryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.themeService.CreateSummary(c.Request.Context(), id, req.Name, req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"summary": summary})
}

// DeleteSummary godoc
// DELETE /api/v1/summaries/:summary_id
func (h *ThemeHandler) DeleteSummary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("summary_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	if err := h.themeService.DeleteSummary(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListFiles godoc
// GET /api/v1/themes/:theme_id/files
func (h *ThemeHandler) ListFiles(c *gin.Context) {
	id, ok := intParam(c, "theme_id")
	if !ok {
		return
	}
	files, err := h.fileService.ListByTheme(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"files": files})
}
