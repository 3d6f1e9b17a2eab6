package main

import (
	"fmt"
	"log"

	"candix/internal/ai"
	"candix/internal/config"
	"candix/internal/extract"
	"candix/internal/handler"
	blugeindex "candix/internal/index/bluge"
	"candix/internal/repository/postgres"
	"candix/internal/router"
	"candix/internal/service"
	s3storage "candix/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	resumeRepo := postgres.NewResumeRepo(db)
	jobRepo := postgres.NewJobRepo(db)

	// Initialize storage and search index
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	searchIndex, err := blugeindex.Open(cfg.Index.Path)
	if err != nil {
		return fmt.Errorf("failed to open search index: %w", err)
	}
	defer searchIndex.Close()

	// Initialize AI collaborators
	providers := []ai.Provider{newProvider(&cfg.AI.Primary)}
	if secondary := cfg.AI.SecondaryConfig(); secondary != nil {
		providers = append(providers, newProvider(secondary))
	}
	extractor := ai.NewExtractor(ai.NewFallbackProvider(providers...))
	embedder := ai.NewGeminiEmbedder(&cfg.AI.Embedding)

	// Initialize services
	chain := extract.NewChain()
	pipeline := service.NewPipeline(chain, s3Client, extractor, embedder, searchIndex, resumeRepo, cfg.S3, cfg.Pipeline)
	jobSvc := service.NewJobService(chain, s3Client, extractor, embedder, searchIndex, jobRepo, cfg.S3)
	matchSvc := service.NewMatchService(searchIndex)

	// Initialize handlers
	resumeH := handler.NewResumeHandler(pipeline)
	jobH := handler.NewJobHandler(jobSvc)
	matchH := handler.NewMatchHandler(matchSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg, resumeH, jobH, matchH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func newProvider(cfg *config.ProviderConfig) ai.Provider {
	switch cfg.Provider {
	case "claude":
		return ai.NewClaudeProvider(cfg)
	default:
		return ai.NewGeminiProvider(cfg)
	}
}
