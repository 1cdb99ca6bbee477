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

	"github.com/VincentGavrila07/Quizzy/internal/cache"
	"github.com/VincentGavrila07/Quizzy/internal/config"
	"github.com/VincentGavrila07/Quizzy/internal/database"
	"github.com/VincentGavrila07/Quizzy/internal/events"
	"github.com/VincentGavrila07/Quizzy/internal/handlers"
	"github.com/VincentGavrila07/Quizzy/internal/middleware"
	"github.com/VincentGavrila07/Quizzy/internal/scheduler"
	"github.com/VincentGavrila07/Quizzy/internal/services"
	"github.com/VincentGavrila07/Quizzy/internal/telegram"
	"github.com/VincentGavrila07/Quizzy/internal/ws"

	_ "github.com/VincentGavrila07/Quizzy/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title           Quizzy API
// @version         1.0
// @description     Quiz catalogue, answer checking and scoring, leaderboards and player statistics.
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

// @securityDefinitions.apikey AdminKey
// @in header
// @name X-Admin-API-Key

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db := database.Connect(cfg)
	database.AutoMigrate(db)
	defer database.Close(db)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	leaderboardCache, err := cache.New(startCtx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.CacheTTL,
	})
	cancelStart()
	if err != nil {
		log.Printf("cache: redis unavailable, leaderboards uncached: %v", err)
		leaderboardCache = cache.Noop{}
	}
	defer leaderboardCache.Close()

	publisher, err := events.New(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	if err != nil {
		log.Printf("events: rabbitmq unavailable, events dropped: %v", err)
		publisher = events.Noop{}
	}
	defer publisher.Close()

	hub := ws.NewHub()
	defer hub.Close()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db)
	userService := services.NewUserService(db)
	statsService := services.NewStatsService(db)
	leaderboardService := services.NewLeaderboardService(db, leaderboardCache)
	sessionService := services.NewSessionService(db, services.NewScoringService(), userService, leaderboardService).
		WithPublisher(publisher).
		WithBroadcaster(hub)
	if notifier := telegram.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID); notifier != nil {
		sessionService.WithNotifier(notifier)
	}

	reconciler := scheduler.NewReconciler(userService, leaderboardService, publisher)
	jobs, err := scheduler.Start(cfg.ReconcileSchedule, reconciler)
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	legacyHandler := handlers.NewLegacyQuizHandler(quizHandler, sessionHandler)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	userHandler := handlers.NewUserHandler(userService, leaderboardService)
	statsHandler := handlers.NewStatsHandler(statsService)
	adminHandler := handlers.NewAdminHandler(quizService, reconciler)
	wsHandler := handlers.NewWSHandler(hub, leaderboardService)

	r := gin.Default()
	r.Use(middleware.RequestID(), middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Admin-API-Key", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
	}))

	r.GET("/health", health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/leaderboard", wsHandler.GlobalLeaderboard)
	r.GET("/ws/leaderboard/:quizId", wsHandler.QuizLeaderboard)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.GET("/:id", quizHandler.GetQuiz)
			quizzes.GET("/:id/stats", quizHandler.GetQuizStatistics)
			quizzes.GET("/:id/correct-answers", quizHandler.GetCorrectAnswers)
		}

		quiz := api.Group("/quiz")
		{
			quiz.GET("", legacyHandler.Get)
			quiz.POST("", middleware.OptionalAuth(authService), legacyHandler.Dispatch)
			quiz.POST("/check", sessionHandler.CheckAnswers)
			quiz.POST("/submit", middleware.OptionalAuth(authService), sessionHandler.SubmitQuiz)
		}

		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		api.POST("/leaderboard", leaderboardHandler.PostLeaderboard)
		api.GET("/stats", statsHandler.GetStatistics)

		users := api.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PATCH("/:id", middleware.JWTAuth(authService), userHandler.UpdateUser)
			users.GET("/:id/stats", userHandler.GetUserStatistics)
			users.GET("/:id/activity", userHandler.GetRecentActivity)
			users.GET("/:id/rank", userHandler.GetRank)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(cfg.AdminAPIKey))
		{
			admin.POST("/quizzes", adminHandler.CreateQuiz)
			admin.POST("/quizzes/import", adminHandler.ImportNewQuiz)
			admin.PUT("/quizzes/:id", adminHandler.UpdateQuiz)
			admin.DELETE("/quizzes/:id", adminHandler.DeleteQuiz)
			admin.POST("/quizzes/:id/questions", adminHandler.CreateQuestion)
			admin.GET("/quizzes/:id/export", adminHandler.ExportQuiz)
			admin.POST("/quizzes/:id/import", adminHandler.ImportQuiz)
			admin.PUT("/questions/:id", adminHandler.UpdateQuestion)
			admin.DELETE("/questions/:id", adminHandler.DeleteQuestion)
			admin.POST("/reconcile", adminHandler.Reconcile)
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("server starting on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	scheduler.Stop(ctx, jobs)
	log.Println("server stopped")
}

func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
