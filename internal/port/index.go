package port

import (
	"context"

	"candix/internal/domain"
)

// SearchIndex abstracts the vector-capable document store resumes and job
// descriptions are indexed into and queried from.
type SearchIndex interface {
	IndexResume(ctx context.Context, doc *domain.ResumeDocument) error
	IndexJob(ctx context.Context, doc *domain.JobDocument) error
	GetJob(ctx context.Context, jobID string) (*domain.JobDocument, error)
	// ResumesForJob returns the indexed resume documents associated with a
	// job description, up to limit.
	ResumesForJob(ctx context.Context, jobID string, limit int) ([]domain.ResumeDocument, error)
}
