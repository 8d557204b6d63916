package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/emrecan/internhub/internal/app/controllers"
	"github.com/emrecan/internhub/internal/app/models"
	"github.com/emrecan/internhub/internal/app/models/dto"
	"github.com/emrecan/internhub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	onboardingController *controllers.OnboardingController,
	collegeController *controllers.CollegeController,
	joinRequestController *controllers.JoinRequestController,
	activityController *controllers.ActivityController,
	dashboardController *controllers.DashboardController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.GET("/gitlab/login", authController.GitLabLogin)
		auth.GET("/gitlab/callback", authController.GitLabCallback)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		// Onboarding is open to any authenticated identity; the state machine
		// itself rejects completed identities.
		onboarding := authenticated.Group("/onboarding")
		{
			onboarding.GET("", onboardingController.GetState)
			onboarding.POST("/role", onboardingController.SelectRole)
			onboarding.POST("/mentor", onboardingController.SubmitMentorSetup)
			onboarding.POST("/intern", onboardingController.SubmitInternSetup)
			onboarding.POST("/back", onboardingController.GoBack)
		}

		colleges := authenticated.Group("/colleges")
		{
			colleges.GET("", collegeController.ListColleges)
			colleges.GET("/:id", collegeController.GetCollege)
			colleges.GET("/:id/cohorts", collegeController.ListCohorts)

			collegesMentorProtected := colleges.Group("")
			collegesMentorProtected.Use(authMiddleware.RoleRequired(models.RoleMentor))
			{
				collegesMentorProtected.POST("", collegeController.CreateCollege)
				collegesMentorProtected.POST("/:id/cohorts", collegeController.CreateCohort)
			}
		}

		joinRequests := authenticated.Group("/join-requests")
		{
			joinRequests.GET("", joinRequestController.ListJoinRequests)
			joinRequests.POST("", joinRequestController.CreateJoinRequest)
			joinRequests.GET("/:id", joinRequestController.GetJoinRequest)

			// The decision endpoint is mentor-gated here; ownership of the
			// referenced college is enforced by the approval service.
			joinRequestsMentorProtected := joinRequests.Group("")
			joinRequestsMentorProtected.Use(authMiddleware.RoleRequired(models.RoleMentor))
			{
				joinRequestsMentorProtected.PATCH("/:id", joinRequestController.DecideJoinRequest)
			}
		}

		activity := authenticated.Group("/activity")
		{
			activity.GET("", activityController.ListActivities)
			activity.POST("/connect", activityController.ConnectGitLab)
			activity.GET("/connection", activityController.GetConnection)
			activity.POST("/sync", activityController.SyncActivities)

			activityMentorProtected := activity.Group("")
			activityMentorProtected.Use(authMiddleware.RoleRequired(models.RoleMentor))
			{
				activityMentorProtected.GET("/team", activityController.TeamActivity)
			}
		}

		authenticated.GET("/dashboard", dashboardController.GetDashboard)

		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.GET("/stats", adminController.GetStats)
			admin.GET("/users", adminController.ListUsers)
			admin.PUT("/users/:id", adminController.AssignRole)
			admin.DELETE("/users/:id", adminController.DeactivateUser)
			admin.GET("/colleges", adminController.ListColleges)
		}
	}

	// Health check endpoint (public)
	v1.GET("/ping", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})
}
