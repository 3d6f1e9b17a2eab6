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

type jobRepo struct {
	db *sqlx.DB
}

// NewJobRepo creates a new PostgreSQL-backed JobRepository.
func NewJobRepo(db *sqlx.DB) port.JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, rec *domain.JobRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	query := `INSERT INTO jobs (
		id, title, s3_bucket, s3_key, text_length, status,
		created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6,
		$7, $8
	)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Title, rec.S3Bucket, rec.S3Key, rec.TextLength, rec.Status,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("jobRepo.Create: %w", err)
	}
	return nil
}

func (r *jobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.JobStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE jobs SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("jobRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.JobRecord, error) {
	var rec domain.JobRecord
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM jobs WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("jobRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *jobRepo) List(ctx context.Context, offset, limit int) ([]domain.JobRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM jobs")
	if err != nil {
		return nil, 0, fmt.Errorf("jobRepo.List count: %w", err)
	}

	var recs []domain.JobRecord
	err = r.db.SelectContext(ctx, &recs,
		"SELECT * FROM jobs ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("jobRepo.List: %w", err)
	}
	return recs, total, nil
}
