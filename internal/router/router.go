package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/certpath/certpath-backend/internal/config"
	"github.com/certpath/certpath-backend/internal/handler"
	"github.com/certpath/certpath-backend/internal/middleware"
	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/response"
	"github.com/certpath/certpath-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Portal        *handler.PortalHandler
	CandidateMgmt *handler.CandidateManagementHandler
	Question      *handler.QuestionHandler
	Test          *handler.TestHandler
	Report        *handler.ReportHandler
	WS            *handler.WSHandler
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

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	publicAPI := router.Group("/api/v1")
	{
		publicAPI.GET("/certificates/:serial", handlers.Portal.VerifyCertificate)
	}

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/candidate/register", handlers.Auth.CandidateRegister)
		auth.POST("/candidate/login", handlers.Auth.CandidateLogin)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)

		// Authenticated profile routes
		auth.POST("/candidate/logout", middleware.RequireCandidateJWT(authService), handlers.Auth.CandidateLogout)
		auth.GET("/candidate/me", middleware.RequireCandidateJWT(authService), handlers.Auth.GetCandidateProfile)
		auth.GET("/admin/me", middleware.RequireAdminJWT(authService), handlers.Auth.GetAdminProfile)
	}

	// ─── 2. Candidate Group (JWT + Single Device) ──────────────────────
	candidateAPI := router.Group("/api/v1/candidate")
	candidateAPI.Use(
		middleware.RequireCandidateJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		candidateAPI.GET("/profile", handlers.Portal.GetProfile)
		candidateAPI.GET("/tests", handlers.Portal.ListTests)
		candidateAPI.POST("/attempts", handlers.Portal.StartAttempt)
		candidateAPI.GET("/attempts", handlers.Portal.GetHistory)
		candidateAPI.GET("/attempts/current", handlers.Portal.GetAttempt)
		candidateAPI.PATCH("/attempts/current", handlers.Portal.UpdateAttempt)
		candidateAPI.POST("/attempts/current/submit", handlers.Portal.SubmitAttempt)
		candidateAPI.GET("/certificate", handlers.Portal.GetCertificate)
	}

	// ─── 3. WebSocket Group (Candidate WS Auth) ────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireCandidateWSAuth(authService))
	{
		ws.GET("/candidate/attempt", handlers.WS.AttemptStream)
	}

	// ─── 4. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Candidate management
		adminAPI.GET("/candidates",
			middleware.RequirePermission(model.PermissionCandidatesRead),
			handlers.CandidateMgmt.List,
		)
		adminAPI.GET("/candidates/:id",
			middleware.RequirePermission(model.PermissionCandidatesRead),
			handlers.CandidateMgmt.Get,
		)
		adminAPI.POST("/candidates",
			middleware.RequirePermission(model.PermissionCandidatesWrite),
			handlers.CandidateMgmt.Create,
		)
		adminAPI.PUT("/candidates/:id",
			middleware.RequirePermission(model.PermissionCandidatesWrite),
			handlers.CandidateMgmt.Update,
		)
		adminAPI.DELETE("/candidates/:id",
			middleware.RequirePermission(model.PermissionCandidatesWrite),
			handlers.CandidateMgmt.Delete,
		)
		adminAPI.PUT("/candidates/:id/payment",
			middleware.RequirePermission(model.PermissionCandidatesPayment),
			handlers.CandidateMgmt.RecordPayment,
		)
		adminAPI.POST("/candidates/:id/reset-session",
			middleware.RequirePermission(model.PermissionCandidatesResetLogin),
			handlers.CandidateMgmt.ResetSession,
		)

		// Module management
		adminAPI.GET("/modules",
			middleware.RequireAnyPermission(model.PermissionQuestionsRead, model.PermissionQuestionsWrite),
			handlers.Question.ListModules,
		)
		adminAPI.POST("/modules",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.CreateModule,
		)
		adminAPI.PUT("/modules/:module_id",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.UpdateModule,
		)
		adminAPI.DELETE("/modules/:module_id",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.DeleteModule,
		)
		adminAPI.POST("/modules/:module_id/questions",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.CreateQuestion,
		)

		// Question bank
		adminAPI.GET("/questions",
			middleware.RequireAnyPermission(model.PermissionQuestionsRead, model.PermissionQuestionsWrite),
			handlers.Question.ListQuestions,
		)
		adminAPI.GET("/questions/:question_id",
			middleware.RequireAnyPermission(model.PermissionQuestionsRead, model.PermissionQuestionsWrite),
			handlers.Question.GetQuestion,
		)
		adminAPI.PUT("/questions/:question_id",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.UpdateQuestion,
		)
		adminAPI.DELETE("/questions/:question_id",
			middleware.RequirePermission(model.PermissionQuestionsWrite),
			handlers.Question.DeactivateQuestion,
		)

		// Test management
		adminAPI.GET("/tests",
			middleware.RequirePermission(model.PermissionTestsRead),
			handlers.Test.List,
		)
		adminAPI.GET("/tests/:test_id",
			middleware.RequirePermission(model.PermissionTestsRead),
			handlers.Test.Get,
		)
		adminAPI.POST("/tests",
			middleware.RequirePermission(model.PermissionTestsWrite),
			handlers.Test.Create,
		)
		adminAPI.PUT("/tests/:test_id",
			middleware.RequirePermission(model.PermissionTestsWrite),
			handlers.Test.Update,
		)
		adminAPI.DELETE("/tests/:test_id",
			middleware.RequirePermission(model.PermissionTestsWrite),
			handlers.Test.Delete,
		)
		adminAPI.POST("/tests/:test_id/publish",
			middleware.RequirePermission(model.PermissionTestsPublish),
			handlers.Test.Publish,
		)
		adminAPI.POST("/tests/:test_id/archive",
			middleware.RequirePermission(model.PermissionTestsPublish),
			handlers.Test.Archive,
		)
		adminAPI.POST("/tests/:test_id/refresh-cache",
			middleware.RequirePermission(model.PermissionTestsPublish),
			handlers.Test.RefreshCache,
		)
		adminAPI.GET("/tests/:test_id/results",
			middleware.RequirePermission(model.PermissionResultsRead),
			handlers.Test.Results,
		)

		// Roles for admin form selection
		adminAPI.GET("/roles", handlers.Auth.ListRoles)

		// Reporting
		adminAPI.GET("/reports/overview",
			middleware.RequirePermission(model.PermissionResultsRead),
			handlers.Report.Overview,
		)
	}

	return router
}
