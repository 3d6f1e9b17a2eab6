package router

import (
	"github.com/gin-gonic/gin"

	"candix/internal/config"
	"candix/internal/handler"
	"candix/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	resumeH *handler.ResumeHandler,
	jobH *handler.JobHandler,
	matchH *handler.MatchHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(&cfg.Auth))

	// Resume ingestion: direct multipart and gateway relay envelope
	v1.POST("/resumes", resumeH.Upload)
	v1.POST("/ingest", resumeH.Ingest)

	// Job descriptions and match queries
	jobs := v1.Group("/jobs")
	jobs.POST("", jobH.Create)
	jobs.GET("", jobH.List)
	jobs.GET("/:id", jobH.Get)
	jobs.GET("/:id/matches", matchH.List)
	jobs.GET("/:id/matches/export", matchH.Export)

	return r
}
