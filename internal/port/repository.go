package port

import (
	"context"

	"github.com/google/uuid"

	"candix/internal/domain"
)

// ResumeRepository persists resume bookkeeping records.
type ResumeRepository interface {
	Create(ctx context.Context, rec *domain.ResumeRecord) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ResumeStatus) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ResumeRecord, error)
	ListByJob(ctx context.Context, jobID string, offset, limit int) ([]domain.ResumeRecord, int, error)
}

// JobRepository persists job description bookkeeping records.
type JobRepository interface {
	Create(ctx context.Context, rec *domain.JobRecord) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.JobRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.JobRecord, int, error)
}
