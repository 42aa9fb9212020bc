package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/service"
	"github.com/quizora/quizora-backend/internal/validator"
)

// SubjectHandler handles subject catalog endpoints.
type SubjectHandler struct {
	subjectService *service.SubjectService
	themeService   *service.ThemeService
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjectService *service.SubjectService, themeService *service.ThemeService) *SubjectHandler {
	return &SubjectHandler{subjectService: subjectService, themeService: themeService}
}

// List godoc
// GET /api/v1/subjects
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.subjectService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subjects": subjects})
}

// Get godoc
// GET /api/v1/subjects/:subject_id
func (h *SubjectHandler) Get(c *gin.Context) {
	id, ok := intParam(c, "subject_id")
	if !ok {
		return
	}
	subject, err := h.subjectService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"subject": subject})
}

// Create godoc
// POST /api/v1/subjects
func (h *SubjectHandler) Create(c *gin.Context) {
	var req model.CreateSubjectRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	subject, err := h.subjectService.Create(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"subject": subject})
}

// Delete godoc
// DELETE /api/v1/subjects/:subject_id
func (h *SubjectHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "subject_id")
	if !ok {
		return
	}
	if err := h.subjectService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListThemes godoc
// GET /api/v1/subjects/:subject_id/themes
func (h *SubjectHandler) ListThemes(c *gin.Context) {
	id, ok := intParam(c, "subject_id")
	if !ok {
		return
	}
	themes, err := h.themeService.ListBySubject(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"themes": themes})
}

// CreateTheme godoc
// POST /api/v1/subjects/:subject_id/themes
func (h *SubjectHandler) CreateTheme(c *gin.Context) {
	id, ok := intParam(c, "subject_id")
	if !ok {
		return
	}
	var req model.CreateThemeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	theme, err := h.themeService.Create(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"theme": theme})
}

// intParam parses an integer path parameter, failing the request on bad
// input.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}
