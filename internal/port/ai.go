package port

import (
	"context"

	"candix/internal/domain"
)

// MetadataExtractor abstracts LLM-based structured extraction from document
// text. Implementations never fail the pipeline: on internal error they
// return a fallback record whose ErrorSummary describes the fault.
type MetadataExtractor interface {
	ExtractResume(ctx context.Context, text string) *domain.ResumeMetadata
	ExtractJob(ctx context.Context, text string) *domain.JobMetadata
}

// Embedder abstracts text-to-vector embedding. Implementations never fail:
// on internal error they return a zero vector of domain.EmbeddingDimension.
type Embedder interface {
	Embed(ctx context.Context, text string) []float32
}
