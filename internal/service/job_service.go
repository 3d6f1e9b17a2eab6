package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"candix/internal/config"
	"candix/internal/domain"
	"candix/internal/extract"
	"candix/internal/ingest"
	"candix/internal/port"
)

// JobIngestInput carries a job description either as structured text or as a
// multipart PDF upload relayed in the request.
type JobIngestInput struct {
	Title       string
	Description string
	Request     *ingest.Request
}

// JobIngestOutput summarizes a completed job ingestion.
type JobIngestOutput struct {
	JobID       string `json:"job_id"`
	Title       string `json:"title"`
	TextLength  int    `json:"text_length"`
	SkillsCount int    `json:"skills_count"`
	S3Key       string `json:"s3_key"`
}

// JobService ingests job descriptions: text or PDF in, metadata and a
// description vector indexed, bookkeeping row persisted.
type JobService struct {
	chain    *extract.Chain
	storage  port.ObjectStorage
	metadata port.MetadataExtractor
	embedder port.Embedder
	index    port.SearchIndex
	jobs     port.JobRepository
	s3cfg    config.S3Config
}

// NewJobService wires a JobService from its collaborators.
func NewJobService(
	chain *extract.Chain,
	storage port.ObjectStorage,
	metadata port.MetadataExtractor,
	embedder port.Embedder,
	index port.SearchIndex,
	jobs port.JobRepository,
	s3cfg config.S3Config,
) *JobService {
	return &JobService{
		chain:    chain,
		storage:  storage,
		metadata: metadata,
		embedder: embedder,
		index:    index,
		jobs:     jobs,
		s3cfg:    s3cfg,
	}
}

// Ingest processes one job description submission.
func (s *JobService) Ingest(ctx context.Context, input *JobIngestInput) (*JobIngestOutput, error) {
	jobID := uuid.New()

	text := strings.TrimSpace(input.Description)
	var fileBytes []byte
	if text == "" {
		if input.Request == nil {
			return nil, domain.ErrJobMissingContent
		}
		body, err := ingest.Reconstruct(input.Request.Payload())
		if err != nil {
			return nil, err
		}
		upload, err := ingest.DecodeMultipart(body, input.Request.Boundary(), nil)
		if err != nil {
			return nil, err
		}
		fileBytes = upload.FileBytes
		result, err := s.chain.Extract(upload.FileBytes)
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(result.Text)
		if len(text) < domain.MinUsableTextChars {
			return nil, domain.ErrNoExtractableText
		}
	}

	textKey := s.s3cfg.JobPrefix + jobID.String() + ".txt"
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         textKey,
		Body:        strings.NewReader(text),
		ContentType: "text/plain",
		Size:        int64(len(text)),
	}); err != nil {
		return nil, fmt.Errorf("%w: storage: %v", domain.ErrUploadFailed, err)
	}
	if fileBytes != nil {
		pdfKey := s.s3cfg.JobPrefix + jobID.String() + ".pdf"
		if _, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3cfg.Bucket,
			Key:         pdfKey,
			Body:        bytes.NewReader(fileBytes),
			ContentType: "application/pdf",
			Size:        int64(len(fileBytes)),
		}); err != nil {
			return nil, fmt.Errorf("%w: storage: %v", domain.ErrUploadFailed, err)
		}
	}

	meta := s.metadata.ExtractJob(ctx, text)
	if input.Title != "" {
		meta.Title = input.Title
	}
	vector := s.embedder.Embed(ctx, text)

	rec := &domain.JobRecord{
		ID:         jobID,
		Title:      meta.Title,
		S3Bucket:   s.s3cfg.Bucket,
		S3Key:      textKey,
		TextLength: len(text),
		Status:     domain.JobStatusReceived,
	}
	if err := s.jobs.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("storage bookkeeping: %w", err)
	}

	doc := &domain.JobDocument{
		JobID:      jobID.String(),
		Title:      meta.Title,
		S3Key:      textKey,
		UploadDate: rec.CreatedAt,
		Metadata:   *meta,
		Vector:     vector,
		Text:       text,
	}
	if err := s.index.IndexJob(ctx, doc); err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	if err := s.jobs.UpdateStatus(ctx, jobID, domain.JobStatusIndexed); err != nil {
		log.Printf("service.JobService.Ingest: status update failed for %s: %v", jobID, err)
	}

	log.Printf("service.JobService.Ingest: indexed job %s (%s), %d chars", jobID, meta.Title, len(text))
	return &JobIngestOutput{
		JobID:       jobID.String(),
		Title:       meta.Title,
		TextLength:  len(text),
		SkillsCount: len(meta.RequiredSkills),
		S3Key:       textKey,
	}, nil
}

// Get returns one job bookkeeping record.
func (s *JobService) Get(ctx context.Context, id uuid.UUID) (*domain.JobRecord, error) {
	return s.jobs.GetByID(ctx, id)
}

// List returns job bookkeeping records, newest first.
func (s *JobService) List(ctx context.Context, offset, limit int) ([]domain.JobRecord, int, error) {
	return s.jobs.List(ctx, offset, limit)
}
