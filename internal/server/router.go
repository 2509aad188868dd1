package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/studykit/studylib-backend/internal/handlers"
	"github.com/studykit/studylib-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName         string
	InstituteMiddleware *middleware.InstituteMiddleware
	ChapterHandler      *handlers.ChapterHandler
	SlideHandler        *handlers.SlideHandler
	SearchHandler       *handlers.SearchHandler
	ExportHandler       *handlers.ExportHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.InstituteMiddleware.RequireInstitute())
	{
		// Chapters
		api.GET("/modules/:id/chapters", cfg.ChapterHandler.ListChaptersWithSlides)
		api.GET("/chapters/:id/slides", cfg.ChapterHandler.GetSlidesByChapter)

		// Slides
		api.POST("/chapters/:id/document-slide", cfg.SlideHandler.AddOrUpdateDocumentSlide)
		api.POST("/chapters/:id/video-slide", cfg.SlideHandler.AddOrUpdateVideoSlide)
		api.POST("/chapters/:id/slide", cfg.SlideHandler.AddOrUpdateWrapperSlide)
		api.PUT("/chapters/:id/slides/:slideId/status", cfg.SlideHandler.UpdateStatus)
		api.PUT("/chapters/:id/slide-order", cfg.SlideHandler.UpdateOrder)
		api.PUT("/chapters/:id/reorder", cfg.SlideHandler.ReorderSlide)
		api.POST("/slides/:id/copy", cfg.SlideHandler.CopySlide)
		api.POST("/slides/:id/move", cfg.SlideHandler.MoveSlide)

		// Community search
		api.POST("/search/entities", cfg.SearchHandler.SearchEntities)
		api.GET("/search/filter-options", cfg.SearchHandler.FilterOptions)

		// Export
		api.POST("/slides/:id/export-pdf", cfg.ExportHandler.ExportSlidePDF)
	}

	return router
}
