// Package main runs the portal HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/portaldovale/backend/config"
	"github.com/portaldovale/backend/internal/analytics"
	"github.com/portaldovale/backend/internal/auth"
	"github.com/portaldovale/backend/internal/banners"
	"github.com/portaldovale/backend/internal/businesses"
	"github.com/portaldovale/backend/internal/classifieds"
	"github.com/portaldovale/backend/internal/events"
	"github.com/portaldovale/backend/internal/images"
	"github.com/portaldovale/backend/internal/middleware"
	"github.com/portaldovale/backend/internal/models"
	"github.com/portaldovale/backend/internal/news"
	"github.com/portaldovale/backend/internal/realtime"
	"github.com/portaldovale/backend/pkg/database"
	"github.com/portaldovale/backend/pkg/queue"
	"github.com/portaldovale/backend/pkg/redis"
	"github.com/portaldovale/backend/pkg/response"
	"github.com/portaldovale/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			MediaBucket:     cfg.AWS.MediaBucket,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Banners
	bannerRepo := banners.NewRepository(pool)
	cacheTTL := bannerRepo.GetCacheDuration(ctx)
	if cacheTTL <= 0 {
		cacheTTL = time.Duration(cfg.Banners.CacheMinutes) * time.Minute
	}
	bannerCache := banners.NewCache(cacheTTL, cfg.Banners.CacheBypass)
	templateRegistry := banners.NewRegistry()
	bannerSvc := banners.NewService(bannerRepo, bannerCache, templateRegistry, redisPubSub, logger)
	stopInvalidation, err := bannerSvc.StartInvalidationListener()
	if err != nil {
		logger.Warn("invalidation listener disabled", zap.Error(err))
		stopInvalidation = func() {}
	}
	defer stopInvalidation()

	rotators := banners.NewRotatorRegistry()
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)

	// Analytics
	jobQueue := queue.NewQueue(rdb.Client, logger)
	sink := analytics.NewSink(jobQueue, logger)
	analyticsRepo := analytics.NewRepository(pool)
	analyticsWorker := analytics.NewWorker(analyticsRepo, jobQueue, logger)
	analyticsHandler := analytics.NewHandler(sink, analyticsRepo)

	bannerHandler := banners.NewHandler(bannerSvc, bannerRepo, templateRegistry, rotators, hub, sink, s3Client, logger)

	// Image optimization proxy
	imageHandler := images.NewHandler(images.NewOptimizer(), cfg.Images.MaxWidth, cfg.Images.MaxHeight, logger)

	// Portal content
	newsHandler := news.NewHandler(news.NewRepository(pool), logger)
	classifiedHandler := classifieds.NewHandler(classifieds.NewRepository(pool), logger)
	businessHandler := businesses.NewHandler(businesses.NewRepository(pool), logger)
	eventHandler := events.NewHandler(events.NewRepository(pool), logger)

	// Resume carousel rotation for slots that configure it.
	slots, err := bannerRepo.ListSlots(ctx)
	if err != nil {
		logger.Warn("list slots at boot failed", zap.Error(err))
	}
	for _, slot := range slots {
		if slot.Config.RotationMS > 0 {
			rotators.Start(slot, bannerSvc, hub, sink, logger)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Public portal surface
	router.GET("/slots", bannerHandler.ListSlots)
	router.GET("/slots/:slug/banners", bannerHandler.Serve)
	router.GET("/templates", bannerHandler.ListTemplates)
	router.POST("/analytics/events", analyticsHandler.Ingest)
	router.GET("/images/optimize", imageHandler.Optimize)

	router.GET("/news", newsHandler.List)
	router.GET("/news/:slug", newsHandler.Get)
	router.GET("/classifieds", classifiedHandler.List)
	router.GET("/classifieds/:id", classifiedHandler.Get)
	router.GET("/businesses", businessHandler.List)
	router.GET("/businesses/:id", businessHandler.Get)
	router.GET("/events", eventHandler.List)
	router.GET("/events/:id", eventHandler.Get)

	// Authenticated surface
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.POST("/classifieds", classifiedHandler.Create)
	}

	// Admin surface. Editors manage portal content; the banner write
	// surface is admin-only and re-checks the stored profile role.
	adminOnly := middleware.RequireProfileRole(authRepo, string(models.RoleAdmin))
	admin := router.Group("/admin")
	admin.Use(middleware.JWT(jwtService), middleware.RequireRole("admin", "editor"))
	{
		admin.GET("/users", adminOnly, authHandler.List)

		admin.POST("/slots", adminOnly, bannerHandler.CreateSlot)
		admin.GET("/slots/:slug/banners", adminOnly, bannerHandler.ListBySlot)
		admin.POST("/banners", adminOnly, bannerHandler.Publish)
		admin.POST("/banners/upload", adminOnly, bannerHandler.Upload)
		admin.POST("/banners/deactivate-slot", adminOnly, bannerHandler.DeactivateSlot)
		admin.PATCH("/banners/:id/toggle", adminOnly, bannerHandler.Toggle)
		admin.DELETE("/banners/:id", adminOnly, bannerHandler.Delete)
		admin.POST("/slots/:slug/rotation/start", adminOnly, bannerHandler.StartRotation)
		admin.POST("/slots/:slug/rotation/stop", adminOnly, bannerHandler.StopRotation)
		admin.POST("/cache/clear", adminOnly, bannerHandler.ClearCache)
		admin.GET("/analytics/summary", analyticsHandler.Summary)

		admin.GET("/news", newsHandler.ListAll)
		admin.POST("/news", newsHandler.Create)
		admin.PUT("/news/:id", newsHandler.Update)
		admin.DELETE("/news/:id", newsHandler.Delete)

		admin.GET("/classifieds", classifiedHandler.ListAll)
		admin.PATCH("/classifieds/:id/status", classifiedHandler.SetStatus)
		admin.DELETE("/classifieds/:id", classifiedHandler.Delete)

		admin.POST("/businesses", businessHandler.Create)
		admin.PUT("/businesses/:id", businessHandler.Update)
		admin.DELETE("/businesses/:id", businessHandler.Delete)

		admin.POST("/events", eventHandler.Create)
		admin.PUT("/events/:id", eventHandler.Update)
		admin.DELETE("/events/:id", eventHandler.Delete)
	}

	// WebSocket (public slot watching)
	router.GET("/ws", realtime.ServeWs(hub, rotators, logger))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Background worker (banner event persistence)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go analyticsWorker.Run(workerCtx)
	logger.Info("analytics worker started")

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	rotators.StopAll()
	workerCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
