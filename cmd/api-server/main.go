package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comichub/database"
	"comichub/internal/config"
	"comichub/internal/microservices/http-api/handler"
	"comichub/internal/microservices/http-api/middleware"
	"comichub/internal/microservices/http-api/repository"
	"comichub/internal/microservices/http-api/service"
	"comichub/internal/microservices/websocket"
	"comichub/internal/publishing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis is optional: a nil history repo degrades to postgres-only history.
	redisHistory, err := repository.NewHistoryRedisRepo(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Warn("redis_unavailable, read history runs postgres-only", "error", err)
	}
	history := repository.NewHybridHistoryRepo(redisHistory, repository.NewHistoryPostgresRepo(db))
	defer history.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	comicRepo := repository.NewComicRepo(db)
	chapterRepo := repository.NewChapterRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	advertisementRepo := repository.NewAdvertisementRepo(db)
	notificationRepo := repository.NewNotificationRepository(db)
	genreRepo := repository.NewGenreRepo(db)
	levelRepo := repository.NewLevelRepo(db)

	// Realtime hub
	hub := websocket.NewHub()

	// Services
	authService := service.NewAuthService(userRepo, cfg)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	comicService := service.NewComicService(comicRepo, notificationService)
	chapterService := service.NewChapterService(chapterRepo, comicRepo, notificationService)
	followService := service.NewFollowService(followRepo, comicRepo)
	likeService := service.NewLikeService(likeRepo, comicRepo)
	advertisementService := service.NewAdvertisementService(advertisementRepo, notificationService)
	genreService := service.NewGenreService(genreRepo, notificationService)
	levelService := service.NewLevelService(levelRepo, notificationService)

	// Publish worker
	fanout := publishing.NewFanOut(followRepo, notificationRepo, hub)
	scheduler := publishing.NewScheduler(chapterRepo, fanout, cfg.PublishInterval)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	comicHandler := handler.NewComicHandler(comicService)
	chapterHandler := handler.NewChapterHandler(chapterService, history)
	followHandler := handler.NewFollowHandler(followService)
	likeHandler := handler.NewLikeHandler(likeService)
	advertisementHandler := handler.NewAdvertisementHandler(advertisementService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	genreHandler := handler.NewGenreHandler(genreService)
	levelHandler := handler.NewLevelHandler(levelService)
	historyHandler := handler.NewHistoryHandler(history)

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/check-conn", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	})

	api := r.Group("/api")
	authHandler.RegisterRoutes(api.Group("/auth"))

	// Public reader surface
	comicHandler.RegisterRoutes(api)
	genreHandler.RegisterRoutes(api)
	levelHandler.RegisterRoutes(api)
	chapterHandler.RegisterRoutes(api)
	advertisementHandler.RegisterRoutes(api)

	// Authenticated surface
	authed := api.Group("", middleware.AuthMiddleware(authService))
	chapterHandler.RegisterReaderRoutes(authed)
	followHandler.RegisterRoutes(authed)
	likeHandler.RegisterRoutes(authed)
	historyHandler.RegisterRoutes(authed)
	notificationHandler.RegisterUserRoutes(authed.Group("/notifications"))
	authed.GET("/ws", websocket.ServeWS(hub, cfg.CORSOrigins))

	// Back office
	admin := api.Group("/admin", middleware.AuthMiddleware(authService), middleware.RequireAdmin())
	comicHandler.RegisterAdminRoutes(admin)
	chapterHandler.RegisterAdminRoutes(admin)
	genreHandler.RegisterAdminRoutes(admin)
	levelHandler.RegisterAdminRoutes(admin)
	advertisementHandler.RegisterAdminRoutes(admin)
	notificationHandler.RegisterAdminRoutes(admin.Group("/notifications"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scheduler.Run(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_api_server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err.Error())
	}
	logger.Info("server_stopped_gracefully")
}
