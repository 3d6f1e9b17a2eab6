package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"candix/internal/domain"
	"candix/internal/port"
)

type resumeRepo struct {
	db *sqlx.DB
}

// NewResumeRepo creates a new PostgreSQL-backed ResumeRepository.
func NewResumeRepo(db *sqlx.DB) port.ResumeRepository {
	return &resumeRepo{db: db}
}

func (r *resumeRepo) Create(ctx context.Context, rec *domain.ResumeRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `INSERT INTO resumes (
		id, job_id, file_name, file_size, s3_bucket, s3_key,
		candidate_name, text_length, extraction_used, status,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8, $9, $10,
		$11, $12
	)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.JobID, rec.FileName, rec.FileSize, rec.S3Bucket, rec.S3Key,
		rec.CandidateName, rec.TextLength, rec.ExtractionUsed, rec.Status,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("resumeRepo.Create: %w", err)
	}
	return nil
}

func (r *resumeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ResumeStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE resumes SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("resumeRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *resumeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ResumeRecord, error) {
	var rec domain.ResumeRecord
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM resumes WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resumeRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *resumeRepo) ListByJob(ctx context.Context, jobID string, offset, limit int) ([]domain.ResumeRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM resumes WHERE job_id = $1", jobID)
	if err != nil {
		return nil, 0, fmt.Errorf("resumeRepo.ListByJob count: %w", err)
	}

	var recs []domain.ResumeRecord
	err = r.db.SelectContext(ctx, &recs,
		`SELECT * FROM resumes WHERE job_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		jobID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("resumeRepo.ListByJob: %w", err)
	}
	return recs, total, nil
}
