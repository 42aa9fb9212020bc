package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/quizora/quizora-backend/internal/config"
	"github.com/quizora/quizora-backend/internal/handler"
	"github.com/quizora/quizora-backend/internal/middleware"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/response"
	"github.com/quizora/quizora-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	User       *handler.UserHandler
	Subject    *handler.SubjectHandler
	Theme      *handler.ThemeHandler
	Quiz       *handler.QuizHandler
	Question   *handler.QuestionHandler
	Session    *handler.SessionHandler
	File       *handler.FileHandler
	Generation *handler.GenerationHandler
	WS         *handler.WSHandler
	System     *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve uploaded attachments statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	// Health check.
	router.GET("/health", handlers.System.Health)

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Authenticated API ──────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))
	{
		// Profile
		api.PATCH("/users/me", handlers.User.UpdateMe)
		api.POST("/users/:user_id/promote",
			middleware.RequirePermission(model.PermissionSubjectsWrite),
			handlers.User.PromoteTeacher,
		)

		// Subject catalog
		api.GET("/subjects", handlers.Subject.List)
		api.GET("/subjects/:subject_id", handlers.Subject.Get)
		api.POST("/subjects",
			middleware.RequirePermission(model.PermissionSubjectsWrite),
			handlers.Subject.Create,
		)
		api.DELETE("/subjects/:subject_id",
			middleware.RequirePermission(model.PermissionSubjectsWrite),
			handlers.Subject.Delete,
		)
		api.GET("/subjects/:subject_id/themes", handlers.Subject.ListThemes)
		api.POST("/subjects/:subject_id/themes",
			middleware.RequirePermission(model.PermissionSubjectsWrite),
			handlers.Subject.CreateTheme,
		)

		// Themes and summaries
		api.GET("/themes/:theme_id", handlers.Theme.Get)
		api.DELETE("/themes/:theme_id",
			middleware.RequirePermission(model.PermissionSubjectsWrite),
			handlers.Theme.Delete,
		)
		api.GET("/themes/:theme_id/quizzes", handlers.Theme.ListQuizzes)
		api.GET("/themes/:theme_id/summaries", handlers.Theme.ListSummaries)
		api.POST("/themes/:theme_id/summaries",
			middleware.RequirePermission(model.PermissionSubjectsWrite),
			handlers.Theme.CreateSummary,
		)
		api.DELETE("/summaries/:summary_id",
			middleware.RequirePermission(model.PermissionSubjectsWrite),
			handlers.Theme.DeleteSummary,
		)
		api.GET("/themes/:theme_id/files", handlers.Theme.ListFiles)

		// Quizzes
		api.POST("/quizzes",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Quiz.Create,
		)
		api.GET("/quizzes",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Quiz.ListOwned,
		)
		api.GET("/quizzes/:quiz_id", handlers.Quiz.Get)
		api.DELETE("/quizzes/:quiz_id",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Quiz.Delete,
		)
		api.GET("/quizzes/:quiz_id/questions", handlers.Quiz.Questions)
		api.POST("/quizzes/:quiz_id/questions",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Quiz.AddQuestion,
		)
		api.GET("/quizzes/:quiz_id/files", handlers.Quiz.ListFiles)

		// Questions
		api.PATCH("/questions/:question_id",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Question.Update,
		)
		api.PUT("/questions/:question_id/variants",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Question.ReplaceVariants,
		)
		api.GET("/questions/:question_id/matching",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Question.MatchingConfig,
		)
		api.PUT("/questions/:question_id/matching",
			middleware.RequirePermission(model.PermissionQuizzesWrite),
			handlers.Question.ReplaceMatchingConfig,
		)
		api.POST("/questions/:question_id/solve", handlers.Question.Solve)

		// Sessions
		api.POST("/quizzes/:quiz_id/start", handlers.Quiz.Start)
		api.POST("/quizzes/:quiz_id/sessions", handlers.Session.Start)
		api.GET("/quizzes/:quiz_id/sessions/active", handlers.Session.Active)
		api.GET("/quizzes/:quiz_id/sessions",
			middleware.RequirePermission(model.PermissionSessionsReadAll),
			handlers.Session.ListByQuiz,
		)
		api.POST("/sessions/:session_id/end", handlers.Session.End)
		api.GET("/sessions/:session_id/result", handlers.Session.Result)
		api.GET("/sessions/:session_id/submissions", handlers.Session.Submissions)

		// Files
		api.POST("/files",
			middleware.RequirePermission(model.PermissionFilesUpload),
			handlers.File.Upload,
		)
		api.GET("/files/:file_id", handlers.File.Download)
		api.POST("/files/:file_id/references",
			middleware.RequirePermission(model.PermissionFilesUpload),
			handlers.File.Attach,
		)
		api.DELETE("/files/:file_id",
			middleware.RequirePermission(model.PermissionFilesUpload),
			handlers.File.Delete,
		)

		// Generation
		api.POST("/generation",
			middleware.RequirePermission(model.PermissionGenerationRequest),
			handlers.Generation.Request,
		)
		api.GET("/generation",
			middleware.RequirePermission(model.PermissionGenerationRequest),
			handlers.Generation.ListJobs,
		)
		api.GET("/generation/:job_id",
			middleware.RequirePermission(model.PermissionGenerationRequest),
			handlers.Generation.Job,
		)
	}

	// ─── 3. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/events", handlers.WS.Stream)
	}

	return router
}
