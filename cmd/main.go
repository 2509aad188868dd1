package main

import (
	"context"
	"fmt"
	"os"

	"github.com/studykit/studylib-backend/internal/clients/gcp"
	"github.com/studykit/studylib-backend/internal/clients/redis"
	"github.com/studykit/studylib-backend/internal/db"
	"github.com/studykit/studylib-backend/internal/handlers"
	"github.com/studykit/studylib-backend/internal/logger"
	"github.com/studykit/studylib-backend/internal/middleware"
	"github.com/studykit/studylib-backend/internal/observability"
	"github.com/studykit/studylib-backend/internal/repos"
	"github.com/studykit/studylib-backend/internal/server"
	"github.com/studykit/studylib-backend/internal/services"
	"github.com/studykit/studylib-backend/internal/tree"
	"github.com/studykit/studylib-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "studylib-backend",
		Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	if shutdownOtel != nil {
		defer func() { _ = shutdownOtel(context.Background()) }()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	catalogSeedPath := utils.GetEnv("FILTER_CATALOG_PATH", "configs/filter_options.yaml", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	chapterRepo := repos.NewChapterRepo(thePG, log)
	slideRepo := repos.NewSlideRepo(thePG, log)
	entityRepo := repos.NewEntityRepo(thePG, log)

	// Clients
	cache, err := redis.NewCache(log)
	if err != nil {
		log.Warn("Redis init failed, catalog served uncached", "error", err)
		cache = nil
	}
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, PDF export disabled", "error", err)
	}

	// Services
	log.Info("Setting up Services from main...")
	treeRegistry := tree.NewRegistry()
	chapterService := services.NewChapterService(thePG, log, chapterRepo, slideRepo)
	slideService := services.NewSlideService(thePG, log, chapterRepo, slideRepo, treeRegistry)
	searchService := services.NewSearchService(thePG, log, entityRepo)
	catalogService := services.NewCatalogService(log, cache, catalogSeedPath)
	exportService := services.NewExportService(thePG, log, slideRepo, bucketService)

	// Handlers
	log.Info("Setting up handlers from main...")
	chapterHandler := handlers.NewChapterHandler(chapterService)
	slideHandler := handlers.NewSlideHandler(slideService)
	searchHandler := handlers.NewSearchHandler(searchService, catalogService)
	exportHandler := handlers.NewExportHandler(exportService)

	// Middleware
	instituteMiddleware := middleware.NewInstituteMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:         "studylib-backend",
		InstituteMiddleware: instituteMiddleware,
		ChapterHandler:      chapterHandler,
		SlideHandler:        slideHandler,
		SearchHandler:       searchHandler,
		ExportHandler:       exportHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
