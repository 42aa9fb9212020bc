package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizora/quizora-backend/internal/middleware"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/service"
	"github.com/quizora/quizora-backend/internal/validator"
)

// GenerationHandler handles async quiz-generation endpoints.
type GenerationHandler struct {
	genService *service.GenerationService
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(genService *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{genService: genService}
}

// Request godoc
// POST /api/v1/generation
// Queues a generation job and returns it in queued state.
func (h *GenerationHandler) Request(c *gin.Context) {
	var req model.GenerationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	job, err := h.genService.Request(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusAccepted, gin.H{"job": job})
}

// Job godoc
// GET /api/v1/generation/:job_id
func (h *GenerationHandler) Job(c *gin.Context) {
	id, ok := uuidParam(c, "job_id")
	if !ok {
		return
	}

	job, err := h.genService.Job(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"job": job})
}

// ListJobs godoc
// GET /api/v1/generation
func (h *GenerationHandler) ListJobs(c *gin.Context) {
	jobs, err := h.genService.ListJobs(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"jobs": jobs})
}
