package routes

import (
	"github.com/gin-gonic/gin"

	"officehub/internal/authz"
	"officehub/internal/handlers"
	"officehub/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	passwordResetHandler *handlers.PasswordResetHandler,
	userHandler *handlers.UserHandler,
	taskHandler *handlers.TaskHandler,
	attendanceHandler *handlers.AttendanceHandler,
	workLogHandler *handlers.WorkLogHandler,
	evaluationHandler *handlers.EvaluationHandler,
	documentHandler *handlers.DocumentHandler,
	messageHandler *handlers.MessageHandler,
	announcementHandler *handlers.AnnouncementHandler,
	notificationHandler *handlers.NotificationHandler,
	dashboardHandler *handlers.DashboardHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/register", authHandler.Register)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	reset := r.Group("/api/password-reset")
	{
		reset.POST("/check-email", passwordResetHandler.CheckEmail)
		reset.POST("/send-otp", passwordResetHandler.SendOtp)
		reset.POST("/verify-otp", passwordResetHandler.VerifyOtp)
		reset.POST("/reset-password", passwordResetHandler.ResetPassword)
		reset.POST("/resend-otp", passwordResetHandler.ResendOtp)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	me := r.Group("/api/auth")
	{
		me.GET("/me", authHandler.Me)
		me.PUT("/update-details", authHandler.UpdateDetails)
		me.PUT("/update-password", authHandler.UpdatePassword)
		me.POST("/logout", authHandler.Logout)
	}

	// USERS (админ, кроме своего профиля и аватара)
	users := r.Group("/api/users")
	{
		users.GET("/", middleware.RequireRoles(authz.RoleAdmin), userHandler.List)
		users.GET("/interns", middleware.RequireRoles(authz.RoleAdmin), userHandler.ListInterns)
		users.GET("/:id", userHandler.GetByID)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", middleware.RequireRoles(authz.RoleAdmin), userHandler.Delete)
		users.POST("/:id/avatar", userHandler.UploadAvatar)
	}

	// TASKS
	tasks := r.Group("/api/tasks")
	{
		tasks.POST("/", middleware.RequireRoles(authz.RoleAdmin), taskHandler.Create)
		tasks.GET("/", taskHandler.List)
		tasks.GET("/stats", taskHandler.Stats)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", middleware.RequireRoles(authz.RoleAdmin), taskHandler.Delete)
		tasks.POST("/:id/comments", taskHandler.AddComment)
	}

	// ATTENDANCE
	attendance := r.Group("/api/attendance")
	{
		attendance.POST("/check-in", attendanceHandler.CheckIn)
		attendance.POST("/check-out", attendanceHandler.CheckOut)
		attendance.GET("/today", attendanceHandler.Today)
		attendance.GET("/", attendanceHandler.List)
		attendance.GET("/stats", attendanceHandler.Stats)
		attendance.POST("/leave", attendanceHandler.RequestLeave)
		attendance.PUT("/leave/:id", middleware.RequireRoles(authz.RoleAdmin), attendanceHandler.ResolveLeave)
	}

	// WORK LOGS
	workLogs := r.Group("/api/work-logs")
	{
		workLogs.POST("/", workLogHandler.Create)
		workLogs.GET("/", workLogHandler.List)
		workLogs.GET("/stats", workLogHandler.Stats)
		workLogs.GET("/:id", workLogHandler.GetByID)
		workLogs.PUT("/:id", workLogHandler.Update)
		workLogs.DELETE("/:id", workLogHandler.Delete)
		workLogs.POST("/:id/review", middleware.RequireRoles(authz.RoleAdmin), workLogHandler.Review)
	}

	// EVALUATIONS (создание/правка/публикация — админ)
	evaluations := r.Group("/api/evaluations")
	{
		evaluations.POST("/", middleware.RequireRoles(authz.RoleAdmin), evaluationHandler.Create)
		evaluations.GET("/", evaluationHandler.List)
		evaluations.GET("/:id", evaluationHandler.GetByID)
		evaluations.PUT("/:id", middleware.RequireRoles(authz.RoleAdmin), evaluationHandler.Update)
		evaluations.DELETE("/:id", middleware.RequireRoles(authz.RoleAdmin), evaluationHandler.Delete)
		evaluations.POST("/:id/publish", middleware.RequireRoles(authz.RoleAdmin), evaluationHandler.Publish)
	}

	// DOCUMENTS
	documents := r.Group("/api/documents")
	{
		documents.POST("/", documentHandler.Upload)
		documents.GET("/", documentHandler.List)
		documents.GET("/:id", documentHandler.GetByID)
		documents.DELETE("/:id", documentHandler.Delete)
		documents.POST("/:id/share", middleware.RequireRoles(authz.RoleAdmin), documentHandler.Share)
		documents.GET("/:id/download", documentHandler.Download)
	}

	// MESSAGES
	messages := r.Group("/api/messages")
	{
		messages.POST("/", messageHandler.Send)
		messages.GET("/conversations", messageHandler.Conversations)
		messages.GET("/unread", messageHandler.UnreadCount)
		messages.GET("/with/:userId", messageHandler.Conversation)
		messages.PUT("/with/:userId/read", messageHandler.MarkRead)
	}

	// ANNOUNCEMENTS
	announcements := r.Group("/api/announcements")
	{
		announcements.POST("/", middleware.RequireRoles(authz.RoleAdmin), announcementHandler.Create)
		announcements.GET("/", announcementHandler.List)
		announcements.PUT("/:id", middleware.RequireRoles(authz.RoleAdmin), announcementHandler.Update)
		announcements.DELETE("/:id", middleware.RequireRoles(authz.RoleAdmin), announcementHandler.Delete)
		announcements.POST("/:id/read", announcementHandler.MarkRead)
	}

	// NOTIFICATIONS
	notifications := r.Group("/api/notifications")
	{
		notifications.GET("/", notificationHandler.List)
		notifications.PUT("/:id/read", notificationHandler.MarkRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		notifications.DELETE("/:id", notificationHandler.Delete)
	}

	// DASHBOARDS
	dashboard := r.Group("/api/dashboard")
	{
		dashboard.GET("/admin", middleware.RequireRoles(authz.RoleAdmin), dashboardHandler.Admin)
		dashboard.GET("/intern", dashboardHandler.Intern)
	}

	return r
}
