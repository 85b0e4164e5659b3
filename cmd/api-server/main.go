package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"gorm.io/gorm"

	"videohub/database"
	"videohub/internal/cache"
	"videohub/internal/config"
	"videohub/internal/logging"
	"videohub/internal/microservices/http-api/dto"
	"videohub/internal/microservices/http-api/handler"
	"videohub/internal/microservices/http-api/middleware"
	"videohub/internal/microservices/http-api/repository"
	"videohub/internal/microservices/http-api/service"
	"videohub/internal/storage"
	"videohub/internal/tasks"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)
	if cfg.IsDevelopment() {
		if err := database.Migrate(db, logger); err != nil {
			return err
		}
	}

	store, err := storage.New(cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	broker, err := tasks.NewBroker(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("connect task broker: %w", err)
	}
	defer broker.Close()
	dispatcher := tasks.NewDispatcher(broker, logger)
	defer dispatcher.Wait()

	categoryCache, err := cache.New[string, []dto.CategoryResponse](cfg.CacheSize, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	followerRepo := repository.NewFollowerRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, verificationRepo, dispatcher, cfg, logger)
	userService := service.NewUserService(userRepo, followerRepo, videoRepo, historyRepo, store, dispatcher, cfg.FrontendURL, cfg.ProjectName)
	categoryService := service.NewCategoryService(categoryRepo, videoRepo, store, categoryCache)
	videoService := service.NewVideoService(videoRepo, voteRepo, historyRepo, categoryRepo, store, logger)
	notifier := service.NewEmailNotifier(dispatcher, cfg.FrontendURL, logger)
	commentService := service.NewCommentService(commentRepo, videoRepo, notifier, store.URL, logger)

	limiter, err := middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if err != nil {
		return fmt.Errorf("init rate limiter: %w", err)
	}

	if cfg.GoEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = 32 << 20

	r.GET("/check-conn", healthCheck(db))
	if local, ok := store.(*storage.LocalStorage); ok {
		r.Static("/media", local.Root())
	}

	requireAuth := middleware.AuthMiddleware(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	api := r.Group("/api/v1", middleware.RateLimit(limiter))
	handler.NewAuthHandler(authService).RegisterRoutes(api)
	handler.NewUserHandler(userService, cfg.UploadMaxSize).RegisterRoutes(api, requireAuth, optionalAuth)
	handler.NewCategoryHandler(categoryService, cfg.PageSize).RegisterRoutes(api, requireAuth)
	handler.NewVideoHandler(videoService, cfg.PageSize, cfg.UploadMaxSize).RegisterRoutes(api, requireAuth, optionalAuth)
	handler.NewCommentHandler(commentService).RegisterRoutes(api, requireAuth)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Range"},
		ExposedHeaders:   []string{"Content-Range", "Accept-Ranges", "Content-Length"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           corsHandler.Handler(r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", srv.Addr, "storage", cfg.StorageBackend, "broker", cfg.TaskBroker)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("api server stopped gracefully")
	return nil
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "API is alive and database connected"})
	}
}
