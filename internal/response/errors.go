package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizora/quizora-backend/internal/apperror"
)

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Quiz-specific ─────────────────────────────────────────────────
	ErrSessionLimitReached ErrCode = "SESSION_LIMIT_REACHED"
	ErrSessionEnded        ErrCode = "SESSION_ALREADY_ENDED"
	ErrNoActiveSession     ErrCode = "NO_ACTIVE_SESSION"
	ErrNotAnswerable       ErrCode = "QUESTION_NOT_ANSWERABLE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrEmailTaken:
		return "This email is already registered."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrPermissionDenied:
		return "Permission denied."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrSessionLimitReached:
		return "The session limit for this quiz has been reached."
	case ErrSessionEnded:
		return "This session has already ended."
	case ErrNoActiveSession:
		return "There is no active session for this quiz."
	case ErrNotAnswerable:
		return "This question cannot be answered."
	case ErrFileRequired:
		return "A file upload is required."
	case ErrUnsupportedFile:
		return "Unsupported file type."
	case ErrFileTooLarge:
		return "File size exceeds the limit."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

// FromError maps a service error onto the HTTP layer: status code, error
// code and message taken from the error itself (internal details are never
// leaked). Validation errors carry their field map through.
func FromError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := ErrInternal

	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		status, code = http.StatusBadRequest, ErrValidation
	case apperror.KindNotFound:
		status, code = http.StatusNotFound, ErrNotFound
	case apperror.KindForbidden:
		status, code = http.StatusForbidden, ErrForbidden
	case apperror.KindConflict:
		status, code = http.StatusConflict, ErrConflict
	}

	if specific := apperror.CodeOf(err); specific != "" {
		code = ErrCode(specific)
	}

	c.JSON(status, Response{
		Error: &ErrorBody{
			Code:    code,
			Message: apperror.MessageOf(err),
			Fields:  apperror.FieldsOf(err),
		},
		Metadata: buildMetadata(c),
	})
}
