package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Cyberod/Taskify-Backend/config"
	"github.com/Cyberod/Taskify-Backend/controllers"
	"github.com/Cyberod/Taskify-Backend/middleware"
	"github.com/Cyberod/Taskify-Backend/services"
)

// SetupRouter wires services, controllers and middleware into the Gin
// engine.
func SetupRouter(db *gorm.DB, cfg config.Config, notifier services.Notifier, clock services.Clock, logger *slog.Logger) *gin.Engine {
	r := gin.Default()

	accounts := &services.AccountService{
		DB:             db,
		Notifier:       notifier,
		Clock:          clock,
		Logger:         logger,
		JWTSecret:      []byte(cfg.JWTSecret),
		JWTTTL:         cfg.JWTTTL,
		OTPTTL:         cfg.OTPTTL,
		ResetOTPTTL:    cfg.ResetOTPTTL,
		ResendCooldown: cfg.ResendCooldown,
		MaxResends:     cfg.MaxResends,
		MaxOTPAttempts: cfg.MaxOTPAttempts,
	}
	projects := &services.ProjectService{DB: db, Clock: clock}
	members := &services.MemberService{DB: db}
	invites := &services.InviteService{DB: db, Notifier: notifier, Clock: clock, TTL: cfg.InviteTTL, Logger: logger}
	tasks := &services.TaskService{DB: db, Clock: clock, Logger: logger}
	analytics := &services.AnalyticsService{DB: db, Clock: clock}

	authController := controllers.AuthController{Accounts: accounts, Logger: logger}
	userController := controllers.UserController{DB: db, Accounts: accounts, Logger: logger}
	projectController := controllers.ProjectController{Projects: projects, Logger: logger}
	memberController := controllers.MemberController{Members: members, Logger: logger}
	inviteController := controllers.InviteController{Invites: invites, Logger: logger}
	taskController := controllers.TaskController{Tasks: tasks, Logger: logger}
	analyticsController := controllers.AnalyticsController{Analytics: analytics, Logger: logger}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/verify/request", authController.RequestVerification)
		auth.POST("/verify/confirm", authController.ConfirmVerification)
		auth.POST("/password/forgot", authController.ForgotPassword)
		auth.POST("/password/reset", authController.ResetPassword)
	}

	authed := r.Group("/", middleware.AuthMiddleware(db, []byte(cfg.JWTSecret)))
	{
		authed.GET("/me", userController.Me)
		authed.PATCH("/me", userController.UpdateMe)
		authed.GET("/me/onboarding", userController.OnboardingStatus)
		authed.POST("/me/onboarding", userController.CompleteOnboarding)
		authed.GET("/me/analytics", analyticsController.GetMyMetrics)
		authed.GET("/users", middleware.AdminOnly(), userController.GetUsers)
		authed.GET("/users/:id/analytics", analyticsController.GetUserMetrics)

		p := authed.Group("/projects")
		{
			p.POST("", projectController.CreateProject)
			p.GET("", projectController.GetProjects)
			p.GET("/:id", projectController.GetProject)
			p.PATCH("/:id", projectController.UpdateProject)
			p.POST("/:id/archive", projectController.ArchiveProject)
			p.DELETE("/:id", projectController.DeleteProject)

			p.GET("/:id/members", memberController.GetMembers)
			p.PATCH("/:id/members/:userID", memberController.ChangeRole)
			p.DELETE("/:id/members/:userID", memberController.RemoveMember)

			p.POST("/:id/invites", inviteController.CreateInvite)
			p.GET("/:id/invites", inviteController.GetInvites)

			p.POST("/:id/tasks", taskController.CreateTask)
			p.GET("/:id/tasks", taskController.GetProjectTasks)
			p.GET("/:id/tasks/pool", taskController.GetPoolTasks)

			p.GET("/:id/analytics/completion", analyticsController.GetCompletion)
			p.GET("/:id/analytics/health", analyticsController.GetHealth)
			p.GET("/:id/analytics/contributions", analyticsController.GetContributions)
			p.GET("/:id/analytics/dashboard", analyticsController.GetDashboard)
		}

		authed.POST("/invites/accept", inviteController.AcceptInvite)
		authed.POST("/invites/decline", inviteController.DeclineInvite)
		authed.DELETE("/invites/:id", inviteController.CancelInvite)

		authed.GET("/tasks/mine", taskController.GetMyTasks)
		authed.GET("/tasks/:id", taskController.GetTask)
		authed.PATCH("/tasks/:id", taskController.UpdateTask)
		authed.DELETE("/tasks/:id", taskController.DeleteTask)
		authed.POST("/tasks/:id/claim", taskController.ClaimTask)

		authed.GET("/analytics/team", middleware.AdminOnly(), analyticsController.GetTeamProductivity)
	}

	return r
}
