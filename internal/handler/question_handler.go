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

// QuestionHandler handles question editing and answer submission
// endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// Update godoc
// PATCH /api/v1/questions/:question_id
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "question_id")
	if !ok {
		return
	}
	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// ReplaceVariants godoc
// PUT /api/v1/questions/:question_id/variants
// Replaces the question's full answer-option set; stale picks referencing
// the old set are invalidated.
func (h *QuestionHandler) ReplaceVariants(c *gin.Context) {
	id, ok := uuidParam(c, "question_id")
	if !ok {
		return
	}
	var req model.ReplaceVariantsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	variants, err := h.questionService.ReplaceVariants(c.Request.Context(), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"variants": variants})
}

// MatchingConfig godoc
// GET /api/v1/questions/:question_id/matching
func (h *QuestionHandler) MatchingConfig(c *gin.Context) {
	id, ok := uuidParam(c, "question_id")
	if !ok {
		return
	}
	cfg, err := h.questionService.MatchingConfig(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"config": cfg})
}

// ReplaceMatchingConfig godoc
// PUT /api/v1/questions/:question_id/matching
func (h *QuestionHandler) ReplaceMatchingConfig(c *gin.Context) {
	id, ok := uuidParam(c, "question_id")
	if !ok {
		return
	}
	var req model.ReplaceMatchingConfigRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.questionService.ReplaceMatchingConfig(c.Request.Context(), id, req.Config); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"replaced": true})
}

// Solve godoc
// POST /api/v1/questions/:question_id/solve
// Grades a submission inside the caller's active session for the quiz.
func (h *QuestionHandler) Solve(c *gin.Context) {
	id, ok := uuidParam(c, "question_id")
	if !ok {
		return
	}
	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.questionService.Solve(c.Request.Context(), middleware.GetUserID(c), id, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}
