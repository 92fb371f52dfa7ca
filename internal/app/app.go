package app

import (
	"database/sql"
	"fmt"
	"log"

	"officehub/internal/config"
	"officehub/internal/handlers"
	"officehub/internal/middleware"
	"officehub/internal/pdf"
	"officehub/internal/repositories"
	"officehub/internal/routes"
	"officehub/internal/services"
	"officehub/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "officehub/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.SetJWTKey([]byte(cfg.JWT.Secret))

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === OTP store (Redis, если настроен, иначе in-memory) ===
	var otpStore repositories.OtpStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		otpStore = repositories.NewRedisOtpStore(rdb)
		log.Printf("[app] OTP store: redis %s", cfg.Redis.Addr)
	} else {
		otpStore = repositories.NewMemoryOtpStore()
		log.Printf("[app] OTP store: in-memory")
	}

	// === Object storage ===
	objStorage, err := storage.NewMinioStorage(cfg.Storage)
	if err != nil {
		log.Fatal("Ошибка подключения к хранилищу: ", err)
	}

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	attendanceRepo := repositories.NewAttendanceRepository(db)
	workLogRepo := repositories.NewWorkLogRepository(db)
	evaluationRepo := repositories.NewEvaluationRepository(db)
	documentRepo := repositories.NewDocumentRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	announcementRepo := repositories.NewAnnouncementRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	// Telegram-пуши опциональны
	var telegramService *services.TelegramService
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken != "" {
		telegramService, err = services.NewTelegramService(cfg.Telegram.BotToken)
		if err != nil {
			log.Printf("[app] telegram отключён: %v", err)
			telegramService = nil
		}
	}

	notificationService := services.NewNotificationService(notificationRepo, userRepo, telegramService)
	userService := services.NewUserService(userRepo, emailService, authService, objStorage)
	passwordResetService := services.NewPasswordResetService(
		userRepo, otpStore, emailService, authService,
		cfg.OtpTTL(), cfg.Otp.MaxAttempts,
	)
	taskService := services.NewTaskService(taskRepo, notificationService)
	attendanceService := services.NewAttendanceService(attendanceRepo, notificationService)
	workLogService := services.NewWorkLogService(workLogRepo, notificationService)

	// PDF генератор (положи TTF с кириллицей в assets/fonts/DejaVuSans.ttf)
	certGen := pdf.NewCertificateGenerator("assets/fonts/DejaVuSans.ttf")

	evaluationService := services.NewEvaluationService(evaluationRepo, userRepo, notificationService, certGen, objStorage)
	documentService := services.NewDocumentService(documentRepo, userRepo, objStorage, notificationService)
	messageService := services.NewMessageService(messageRepo, userRepo)
	announcementService := services.NewAnnouncementService(announcementRepo, userRepo, notificationService)
	dashboardService := services.NewDashboardService(userRepo, taskRepo, attendanceRepo, workLogRepo, evaluationRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	passwordResetHandler := handlers.NewPasswordResetHandler(passwordResetService)
	userHandler := handlers.NewUserHandler(userService)
	taskHandler := handlers.NewTaskHandler(taskService, userService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	workLogHandler := handlers.NewWorkLogHandler(workLogService)
	evaluationHandler := handlers.NewEvaluationHandler(evaluationService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	messageHandler := handlers.NewMessageHandler(messageService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// === Gin ===
	router := gin.Default()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Роуты (JWT/RBAC — внутри SetupRoutes)
	routes.SetupRoutes(
		router,
		authHandler,
		passwordResetHandler,
		userHandler,
		taskHandler,
		attendanceHandler,
		workLogHandler,
		evaluationHandler,
		documentHandler,
		messageHandler,
		announcementHandler,
		notificationHandler,
		dashboardHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
