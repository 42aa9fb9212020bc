package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizora/quizora-backend/internal/apperror"
	"github.com/quizora/quizora-backend/internal/middleware"
	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/service"
)

// SessionHandler handles quiz session lifecycle endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
	quizService    *service.QuizService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService, quizService *service.QuizService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, quizService: quizService}
}

// Start godoc
// POST /api/v1/quizzes/:quiz_id/sessions
// Opens a session if the quiz's cap allows another attempt.
func (h *SessionHandler) Start(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	session, err := h.sessionService.Start(c.Request.Context(), middleware.GetUserID(c), quizID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// Active godoc
// GET /api/v1/quizzes/:quiz_id/sessions/active
func (h *SessionHandler) Active(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	session, err := h.sessionService.Active(c.Request.Context(), middleware.GetUserID(c), quizID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// End godoc
// POST /api/v1/sessions/:session_id/end
// Finishes a session and returns its result summary. Ending twice is a
// conflict.
func (h *SessionHandler) End(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}

	result, err := h.sessionService.End(c.Request.Context(), middleware.GetUserID(c), sessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Result godoc
// GET /api/v1/sessions/:session_id/result
func (h *SessionHandler) Result(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}

	result, err := h.sessionService.Result(c.Request.Context(), middleware.GetUserID(c), sessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Submissions godoc
// GET /api/v1/sessions/:session_id/submissions
// Returns the session's recorded answer trail. The session's owner and
// the quiz's owner may read it.
func (h *SessionHandler) Submissions(c *gin.Context) {
	sessionID, ok := uuidParam(c, "session_id")
	if !ok {
		return
	}

	history, err := h.sessionService.History(c.Request.Context(), middleware.GetUserID(c), sessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"history": history})
}

// ListByQuiz godoc
// GET /api/v1/quizzes/:quiz_id/sessions
// Lists every session of a quiz. Restricted to the quiz owner.
func (h *SessionHandler) ListByQuiz(c *gin.Context) {
	quizID, ok := uuidParam(c, "quiz_id")
	if !ok {
		return
	}

	owner, err := h.quizService.IsOwner(c.Request.Context(), quizID, middleware.GetUserID(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !owner {
		response.FromError(c, apperror.Forbidden("you do not own this quiz"))
		return
	}

	sessions, err := h.sessionService.ListByQuiz(c.Request.Context(), quizID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}
