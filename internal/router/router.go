package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeloe-dev/yeloe/internal/handlers"
	"github.com/yeloe-dev/yeloe/internal/middleware"
	"github.com/yeloe-dev/yeloe/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/notifications", middleware.AuthMiddleware(), handlers.NotificationSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/verify-email", handlers.VerifyEmail)
			auth.POST("/resend-verification", handlers.ResendVerification)
			auth.POST("/forgot-password", handlers.ForgotPassword)
			auth.POST("/reset-password", handlers.ResetPassword)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.POST("/logout", middleware.AuthMiddleware(), handlers.Logout)
			auth.PATCH("/profile", middleware.AuthMiddleware(), handlers.UpdateProfile)
			auth.POST("/change-password", middleware.AuthMiddleware(), handlers.ChangePassword)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:project_id", handlers.GetProject)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.PATCH("/:project_id/progress", handlers.UpdateProjectProgress)
			projects.DELETE("/:project_id", handlers.DeleteProject)

			// Membership endpoints
			projects.GET("/:project_id/members", handlers.GetProjectMembers)
			projects.DELETE("/:project_id/members/:user_id", handlers.RemoveMember)
			projects.POST("/:project_id/invitations", handlers.SendProjectInvitation)
		}

		invitations := api.Group("/invitations", middleware.AuthMiddleware())
		{
			invitations.GET("", handlers.ListMyInvitations)
			invitations.GET("/:invitation_id", handlers.GetInvitation)
			invitations.POST("/:invitation_id/accept", handlers.AcceptInvitation)
			invitations.POST("/:invitation_id/decline", handlers.DeclineInvitation)
		}

		tasks := api.Group("/tasks", middleware.AuthMiddleware())
		{
			tasks.POST("", handlers.CreateTask)
			tasks.GET("", handlers.ListTasks)
			tasks.GET("/:task_id", handlers.GetTask)
			tasks.PATCH("/:task_id", handlers.UpdateTask)
			tasks.POST("/:task_id/complete", handlers.CompleteTask)
			tasks.DELETE("/:task_id", handlers.DeleteTask)

			// Collaboration endpoints
			tasks.POST("/:task_id/comments", handlers.AddComment)
			tasks.GET("/:task_id/comments", handlers.GetComments)
			tasks.POST("/:task_id/work", handlers.AddWorkLog)
			tasks.GET("/:task_id/work", handlers.GetWorkLogs)
		}

		notifications := api.Group("/notifications", middleware.AuthMiddleware())
		{
			notifications.GET("", handlers.ListNotifications)
			notifications.GET("/unread-count", handlers.UnreadNotificationCount)
			notifications.POST("/:notification_id/read", handlers.MarkNotificationRead)
			notifications.POST("/read-all", handlers.MarkAllNotificationsRead)
		}
	}

	return r
}
