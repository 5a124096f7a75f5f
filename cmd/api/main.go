package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/elearning-api/internal/config"
	"github.com/yourusername/elearning-api/internal/handler"
	"github.com/yourusername/elearning-api/internal/middleware"
	pgRepo "github.com/yourusername/elearning-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/elearning-api/internal/repository/redis"
	"github.com/yourusername/elearning-api/internal/service"
	"github.com/yourusername/elearning-api/pkg/auth"
	"github.com/yourusername/elearning-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis (счетчики rate limiting)
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	quizRepo := pgRepo.NewQuizRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)
	lessonRepo := pgRepo.NewLessonRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	quizService := service.NewQuizService(quizRepo, questionRepo, answerRepo, attemptRepo, lessonRepo)
	attemptService := service.NewAttemptService(attemptRepo, quizRepo, cacheRepo)
	lessonService := service.NewLessonService(lessonRepo)

	// Инициализируем обработчики
	quizHandler := handler.NewQuizHandler(quizService)
	attemptHandler := handler.NewAttemptHandler(attemptService)
	lessonHandler := handler.NewLessonHandler(lessonService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(cacheRepo)

	submitLimitCfg := middleware.DefaultSubmitRateLimitConfig()
	if cfg.Engine.SubmitRateLimit > 0 {
		submitLimitCfg.MaxRequests = cfg.Engine.SubmitRateLimit
	}

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам (защита от IP spoofing).
		// При деплое за load balancer замените nil на его IP.
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API. Общий IP-лимит стоит перед
	// аутентификацией и покрывает в том числе публичные списки.
	api := router.Group("/api")
	api.Use(rateLimiter.LimitByIP(middleware.DefaultPublicRateLimitConfig()))
	{
		// Уроки: тест привязан к уроку (не более одного на урок)
		lessons := api.Group("/lessons/:id")
		lessons.Use(middleware.ExtractUintParam("id", "lessonID"))
		{
			lessons.GET("/quiz", quizHandler.GetLessonQuiz)

			adminLessons := lessons.Group("")
			adminLessons.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminLessons.POST("/quiz", quizHandler.CreateQuiz)
			}
		}

		// Главы: просмотр и перестановка уроков
		chapters := api.Group("/chapters/:id")
		chapters.Use(middleware.ExtractUintParam("id", "chapterID"))
		{
			chapters.GET("/lessons", lessonHandler.GetChapterLessons)

			adminChapters := chapters.Group("")
			adminChapters.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminChapters.PUT("/lessons/order", lessonHandler.ReorderLessons)
			}
		}

		// Тесты
		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)

			quizWithID := quizzes.Group("/:id")
			quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizWithID.GET("", quizHandler.GetQuiz)

				// Полное дерево: правильные ответы видят только администраторы
				authedQuiz := quizWithID.Group("")
				authedQuiz.Use(authMiddleware.RequireAuth())
				{
					authedQuiz.GET("/with-questions", quizHandler.GetQuizWithQuestions)

					// Отправка попытки с лимитом частоты
					authedQuiz.POST("/attempts",
						rateLimiter.LimitByUser(submitLimitCfg),
						attemptHandler.SubmitAttempt)
					authedQuiz.GET("/attempts/my", attemptHandler.GetMyAttempts)
				}

				adminQuiz := quizWithID.Group("")
				adminQuiz.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
				{
					adminQuiz.PUT("", quizHandler.ReplaceQuiz)
					adminQuiz.DELETE("", quizHandler.DeleteQuiz)
					adminQuiz.POST("/validate-publication", quizHandler.ValidatePublication)
					adminQuiz.POST("/questions", quizHandler.AddQuestion)
					adminQuiz.PUT("/questions/order", quizHandler.ReorderQuestions)
					adminQuiz.GET("/attempts", attemptHandler.ListQuizAttempts)
					adminQuiz.GET("/attempts/export", attemptHandler.ExportAttempts)
				}
			}
		}

		// Вопросы
		questions := api.Group("/questions/:id")
		questions.Use(middleware.ExtractUintParam("id", "questionID"))
		questions.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			questions.PUT("", quizHandler.ReplaceQuestion)
			questions.DELETE("", quizHandler.DeleteQuestion)
			questions.PUT("/answers", quizHandler.ReplaceAnswers)
			questions.PUT("/answers/order", quizHandler.ReorderAnswers)
		}

		// Варианты ответов
		answers := api.Group("/answers/:id")
		answers.Use(middleware.ExtractUintParam("id", "answerID"))
		answers.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			answers.DELETE("", quizHandler.DeleteAnswer)
		}

		// Попытки по публичному UUID
		attempts := api.Group("/attempts")
		attempts.Use(authMiddleware.RequireAuth())
		{
			attempts.GET("/:public_id", attemptHandler.GetAttempt)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	readTimeout := cfg.Server.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 15
	}
	writeTimeout := cfg.Server.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 30
	}
	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
