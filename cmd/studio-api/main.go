package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Krosebrook/ai-academic-content-catalog-sub000/api/swagger"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/handler"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/middleware"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/repository"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/service"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/cache"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/config"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/database"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/jobs"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/llm"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/logger"
	corsmiddleware "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/middleware/requestid"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/storage"
)

// @title AI Content Studio API
// @version 1.0.0
// @description Generation, library and export backend for the educator content studio
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	var backend llm.Client
	if cfg.Generation.Fake {
		logr.Sugar().Warnw("generation running against the offline fake backend")
		backend = llm.NewFakeClient()
	} else {
		gemini, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			TextModel:       cfg.Generation.TextModel,
			ImageModel:      cfg.Generation.ImageModel,
			Temperature:     cfg.Generation.Temperature,
			MaxOutputTokens: cfg.Generation.MaxOutputToken,
		})
		if err != nil {
			logr.Sugar().Fatalw("failed to create generation backend", "error", err)
		}
		backend = gemini
	}

	validate := validator.New()

	contentRepo := repository.NewContentRepository(db)
	collectionRepo := repository.NewCollectionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "studio-api",
	})

	generationSvc := service.NewGenerationService(backend, settingsRepo, metricsSvc, validate, logr, cfg.Generation.RequestTimeout)

	contentSvc := service.NewContentService(contentRepo, validate, logr)
	collectionSvc := service.NewCollectionService(collectionRepo, validate, logr)
	settingsSvc := service.NewSettingsService(settingsRepo, logr)
	shareSvc := service.NewShareService(contentRepo, logr)
	rubricSvc := service.NewRubricService(cacheRepo, generationSvc, contentRepo, validate, logr, cfg.Generation.DraftTTL)
	packageSvc := service.NewPackageService(generationSvc, collectionRepo, contentRepo, settingsRepo, validate, logr)

	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Catalog:     handler.NewCatalogHandler(),
		Content:     handler.NewContentHandler(contentSvc),
		Generation:  handler.NewGenerationHandler(generationSvc),
		Rubric:      handler.NewRubricHandler(rubricSvc),
		Package:     handler.NewPackageHandler(packageSvc),
		Collection:  handler.NewCollectionHandler(collectionSvc),
		Settings:    handler.NewSettingsHandler(settingsSvc),
		Share:       handler.NewShareHandler(shareSvc),
		AuthService: authSvc,
	}

	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		local, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(contentRepo, cacheRepo, local, signer, metricsSvc, validate, logr)
		exportQueue = jobs.NewQueue("exports", exportSvc.HandleJob, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportSvc.SetQueue(exportQueue)
		exportQueue.Start(ctx)
		handlers.Export = handler.NewExportHandler(exportSvc)

		// Rendered files are re-renderable; prune anything older than
		// the signed-URL window.
		go func() {
			ticker := time.NewTicker(time.Hour)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if deleted, err := local.CleanupOlderThan(cfg.Exports.SignedURLTTL); err != nil {
						logr.Sugar().Warnw("export cleanup failed", "error", err)
					} else if len(deleted) > 0 {
						logr.Sugar().Infow("expired exports pruned", "count", len(deleted))
					}
				}
			}
		}()
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	if exportQueue != nil {
		exportQueue.Stop()
	}
}
