package routes

import (
	adminapi "bible-study-app/internal/api/admin"
	"bible-study-app/internal/api/answers"
	authapi "bible-study-app/internal/api/auth"
	"bible-study-app/internal/api/billing"
	stripewebhooks "bible-study-app/internal/api/stripewebhook"
	studiesapi "bible-study-app/internal/api/studies"
	"bible-study-app/internal/api/users"
	"bible-study-app/internal/app/http/middleware"
	"bible-study-app/internal/ingest"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	svc := ingest.NewService(db)
	studiesHandler := studiesapi.NewHandler(svc)

	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/studies", studiesHandler.ListStudies)

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", users.GetCurrentUser)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.GET("/studies/:id", studiesHandler.GetStudy)
	auth.PUT("/questions/:id/answer", answers.UpsertAnswer)
	auth.GET("/studies/:id/answers", answers.ListStudyAnswers)

	auth.POST("/studies/:id/checkout", billing.CreateStudyCheckout)
	auth.GET("/purchases", billing.GetPurchaseHistory)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/audit", adminapi.ListAuditLog)
	admin.GET("/studies", studiesHandler.AdminListStudies)
	admin.POST("/studies", studiesHandler.CreateStudy)
	admin.PUT("/studies/:id", studiesHandler.UpdateStudy)
	admin.DELETE("/studies/:id", studiesHandler.DeleteStudy)
}
