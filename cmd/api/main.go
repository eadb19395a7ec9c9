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

	"github.com/yourusername/secaware-api/internal/config"
	"github.com/yourusername/secaware-api/internal/handler"
	"github.com/yourusername/secaware-api/internal/middleware"
	pgRepo "github.com/yourusername/secaware-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/secaware-api/internal/repository/redis"
	"github.com/yourusername/secaware-api/internal/service"
	"github.com/yourusername/secaware-api/internal/service/attemptengine"
	"github.com/yourusername/secaware-api/pkg/auth"
	"github.com/yourusername/secaware-api/pkg/database"
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

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	moduleRepo := pgRepo.NewModuleRepo(db)
	sectionRepo := pgRepo.NewSectionRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	draftRepo := pgRepo.NewDraftRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWTService
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	moduleService := service.NewModuleService(moduleRepo, sectionRepo)
	sectionService := service.NewSectionService(sectionRepo, questionRepo, moduleRepo)
	userService := service.NewUserService(userRepo)
	resultService := service.NewResultService(resultRepo, sectionRepo)

	// Конфигурация движка попыток из настроек приложения
	engineConfig := attemptengine.DefaultConfig()
	if cfg.Quiz.PassThreshold > 0 {
		engineConfig.PassThreshold = cfg.Quiz.PassThreshold
	}
	if cfg.Quiz.MaxXP > 0 {
		engineConfig.MaxQuizXP = cfg.Quiz.MaxXP
	}
	if cfg.Quiz.DraftTTLHours > 0 {
		engineConfig.DraftTTL = cfg.Quiz.DraftTTL()
	}

	engine := attemptengine.NewAttemptEngine(engineConfig, &attemptengine.Dependencies{
		SectionRepo:  sectionRepo,
		QuestionRepo: questionRepo,
		UserRepo:     userRepo,
		ResultRepo:   resultRepo,
		DraftRepo:    draftRepo,
		CacheRepo:    cacheRepo,
	})

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	moduleHandler := handler.NewModuleHandler(moduleService, sectionService)
	attemptHandler := handler.NewAttemptHandler(engine)
	userHandler := handler.NewUserHandler(userService)
	resultHandler := handler.NewResultHandler(resultService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Если используете load balancer, замените nil на []string{"IP_БАЛАНСИРОВЩИКА"}
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
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

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация (с жёстким лимитом запросов против перебора паролей)
		authGroup := api.Group("/auth")
		{
			strictLimit := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strictLimit, authHandler.Register)
			authGroup.POST("/login", strictLimit, authHandler.Login)
		}

		// Профиль текущего пользователя
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.GetMe)
			users.PUT("/me", authHandler.UpdateProfile)
			users.GET("/me/results", resultHandler.GetMyResults)
		}

		// Лидерборд (публичный маршрут)
		api.GET("/leaderboard", userHandler.GetLeaderboard)

		// Каталог обучения
		modules := api.Group("/modules")
		{
			modules.GET("", moduleHandler.ListModules)

			moduleWithID := modules.Group("/:id")
			moduleWithID.Use(middleware.ExtractUintParam("id", "moduleID"))
			{
				moduleWithID.GET("", moduleHandler.GetModule)
			}
		}

		// Секции и тесты
		sections := api.Group("/sections")
		sectionWithID := sections.Group("/:id")
		sectionWithID.Use(middleware.ExtractUintParam("id", "sectionID"))
		{
			sectionWithID.GET("", moduleHandler.GetSection)

			// Попытки прохождения теста — только для аутентифицированных
			attempt := sectionWithID.Group("/attempt")
			attempt.Use(authMiddleware.RequireAuth())
			{
				attempt.POST("", attemptHandler.StartAttempt)
				attempt.GET("", attemptHandler.GetAttempt)
				attempt.POST("/answer", attemptHandler.SelectAnswer)
				attempt.POST("/submit", attemptHandler.SubmitAnswer)
				attempt.POST("/advance", attemptHandler.Advance)
				attempt.POST("/retry", attemptHandler.Retry)
				attempt.POST("/suspend", attemptHandler.Suspend)
			}

			// Лучший результат пользователя по секции
			authedSection := sectionWithID.Group("")
			authedSection.Use(authMiddleware.RequireAuth())
			{
				authedSection.GET("/my-result", resultHandler.GetMyBestResult)
			}
		}

		// Административные маршруты
		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			adminModules := admin.Group("/modules")
			{
				adminModules.GET("", moduleHandler.ListAllModules)
				adminModules.POST("", moduleHandler.CreateModule)

				adminModuleWithID := adminModules.Group("/:id")
				adminModuleWithID.Use(middleware.ExtractUintParam("id", "moduleID"))
				{
					adminModuleWithID.PUT("", moduleHandler.UpdateModule)
					adminModuleWithID.DELETE("", moduleHandler.DeleteModule)
					adminModuleWithID.POST("/sections", moduleHandler.CreateSection)
				}
			}

			adminSections := admin.Group("/sections/:id")
			adminSections.Use(middleware.ExtractUintParam("id", "sectionID"))
			{
				adminSections.PUT("", moduleHandler.UpdateSection)
				adminSections.DELETE("", moduleHandler.DeleteSection)
				adminSections.POST("/questions", moduleHandler.AddQuestions)
				adminSections.GET("/results", resultHandler.GetSectionResults)
				adminSections.GET("/results/export", resultHandler.ExportSectionResults)
			}

			adminQuestions := admin.Group("/questions/:id")
			adminQuestions.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				adminQuestions.PUT("", moduleHandler.UpdateQuestion)
				adminQuestions.DELETE("", moduleHandler.DeleteQuestion)
			}
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	readTimeout := cfg.Server.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 15
	}
	writeTimeout := cfg.Server.WriteTimeout
	if writeTimeout == 0 {
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

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Сбрасываем живые попытки в черновики, чтобы пользователи
	// продолжили с того же места после рестарта
	log.Println("Сохранение незавершённых попыток...")
	engine.FlushAll()

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
