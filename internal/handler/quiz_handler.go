package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/middleware"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/service"
	"github.com/quizora/quizora-backend/internal/validator"
)

// QuizHandler handles quiz management and delivery endpoints.
type QuizHandler struct {
	quizService     *service.QuizService
	questionService *service.QuestionService
	sessionService  *service.SessionService
	fileService     *service.FileService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(
	quizService *service.QuizService,
	questionService *service.QuestionService,
	sessionService *service.SessionService,
	fileService *service.FileService,
) *QuizHandler {
	return &QuizHandler{
		quizService:     quizService,
		questionService: questionService,
		sessionService:  sessionService,
		fileService:     fileService,
	}
}

// Create godoc
// POST /api/v1/quizzes
// Creates a quiz with its full question set in one shot.
func (h *QuizHandler) Create(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// AddQuestion godoc
// POST /api/v1/quizzes/:quiz_id/questions
// Appends one question to an existing quiz.
func (h *QuizHandler) AddQuestion(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}
	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.quizService.AddQuestion(c.Request.Context(), id, middleware.GetUserID(c), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Get godoc
// GET /api/v1/quizzes/:quiz_id
func (h *QuizHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}
	quiz, err := h.quizService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// ListOwned godoc
// GET /api/v1/quizzes
// Lists the caller's quizzes.
func (h *QuizHandler) ListOwned(c *gin.Context) {
	quizzes, err := h.quizService.ListOwned(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quizzes": quizzes})
}

// Delete godoc
// DELETE /api/v1/quizzes/:quiz_id
// Removes a quiz and everything hanging off it.
func (h *QuizHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}
	if err := h.quizService.Delete(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Questions godoc
// GET /api/v1/quizzes/:quiz_id/questions
// Returns the question set without touching session state. Owners get
// answer keys; takers get keys stripped, with matching columns shuffled by
// their running session when one exists and by (user, quiz) otherwise.
func (h *QuizHandler) Questions(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	owner, err := h.quizService.IsOwner(c.Request.Context(), id, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	var sessionID *uuid.UUID
	if !owner {
		session, err := h.sessionService.Active(c.Request.Context(), userID, id)
		switch {
		case err == nil:
			sessionID = &session.ID
		case apperror.KindOf(err) == apperror.KindNotFound:
			// No running attempt; delivery falls back to the (user, quiz)
			// shuffle seed.
		default:
			response.FromError(c, err)
			return
		}
	}

	questions, err := h.questionService.Deliver(c.Request.Context(), id, userID, sessionID, owner)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Start godoc
// POST /api/v1/quizzes/:quiz_id/start
// Opens a session under the quiz's cap and returns it together with the
// question set shuffled for that session, so a taker begins an attempt in
// one request.
func (h *QuizHandler) Start(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}
	userID := middleware.GetUserID(c)

	session, err := h.sessionService.Start(c.Request.Context(), userID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	questions, err := h.questionService.Deliver(c.Request.Context(), id, userID, &session.ID, false)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": session, "questions": questions})
}

// ListFiles godoc
// GET /api/v1/quizzes/:quiz_id/files
func (h *QuizHandler) ListFiles(c *gin.Context) {
	id, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}
	files, err := h.fileService.ListByQuiz(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"files": files})
}

// uuidParam parses a UUID path parameter, failing the request on bad
// input.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}
