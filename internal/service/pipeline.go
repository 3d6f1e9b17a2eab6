package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"candix/internal/config"
	"candix/internal/domain"
	"candix/internal/extract"
	"candix/internal/ingest"
	"candix/internal/port"
)

// requiredUploadFields are the text fields a resume upload must carry.
var requiredUploadFields = []string{"job_description_id"}

// structuredStrategy names the pre-extracted path in records and responses:
// the caller supplied resume text directly, so no extraction strategy ran.
const structuredStrategy = "structured_json"

// structuredSubmission is the JSON body of a pre-extracted resume submission.
type structuredSubmission struct {
	ResumeContent string `json:"resume_content"`
	JobID         string `json:"job_description_id"`
}

// TimeoutError reports a budget overrun with the stage it was detected at,
// so partial completion can be reported distinctly from total failure.
type TimeoutError struct {
	Stage     domain.PipelineState
	Elapsed   time.Duration
	Completed []domain.PipelineState
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("processing budget exceeded after %s (at %s)", e.Elapsed.Round(time.Millisecond), e.Stage)
}

func (e *TimeoutError) Unwrap() error { return domain.ErrProcessingTimeout }

// ProcessOutput summarizes a completed resume ingestion.
type ProcessOutput struct {
	ResumeID      string   `json:"resume_id"`
	JobID         string   `json:"job_description_id"`
	FileName      string   `json:"file_name"`
	FileSize      int64    `json:"file_size"`
	CandidateName string   `json:"candidate_name"`
	TextLength    int      `json:"text_length"`
	Strategy      string   `json:"extraction_strategy"`
	SkillsCount   int      `json:"skills_count"`
	S3Key         string   `json:"s3_key"`
	Skipped       bool     `json:"skipped,omitempty"`
	SkipReason    string   `json:"skip_reason,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Pipeline sequences resume ingestion: classification, byte reconstruction,
// multipart decoding, text extraction, metadata and embedding calls, object
// persistence and indexing, under a soft wall-clock budget.
type Pipeline struct {
	chain    *extract.Chain
	storage  port.ObjectStorage
	metadata port.MetadataExtractor
	embedder port.Embedder
	index    port.SearchIndex
	resumes  port.ResumeRepository
	s3cfg    config.S3Config
	cfg      config.PipelineConfig
	now      func() time.Time
}

// NewPipeline wires a Pipeline from its collaborators.
func NewPipeline(
	chain *extract.Chain,
	storage port.ObjectStorage,
	metadata port.MetadataExtractor,
	embedder port.Embedder,
	index port.SearchIndex,
	resumes port.ResumeRepository,
	s3cfg config.S3Config,
	cfg config.PipelineConfig,
) *Pipeline {
	return &Pipeline{
		chain:    chain,
		storage:  storage,
		metadata: metadata,
		embedder: embedder,
		index:    index,
		resumes:  resumes,
		s3cfg:    s3cfg,
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithClock overrides the pipeline's clock. Used by tests to simulate
// elapsed time against the budget checkpoints.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Process runs the full ingestion sequence for one inbound request.
func (p *Pipeline) Process(ctx context.Context, req *ingest.Request) (*ProcessOutput, error) {
	start := p.now()
	state := domain.StateReceived

	kind := ingest.Classify(req)
	state = domain.StateClassified
	log.Printf("service.Pipeline.Process: classified input as %s", kind)

	if kind == domain.InputStorageEvent {
		return p.handleStorageEvent(req)
	}

	body, err := ingest.Reconstruct(req.Payload())
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, domain.ErrEmptyBody
	}

	if kind == domain.InputJSON {
		return p.processStructured(ctx, start, body)
	}

	upload, err := ingest.DecodeMultipart(body, req.Boundary(), requiredUploadFields)
	if err != nil {
		return nil, err
	}
	state = domain.StateDecoded
	jobID := upload.Fields["job_description_id"]
	log.Printf("service.Pipeline.Process: decoded %q (%d bytes) for job %s",
		upload.FileName, len(upload.FileBytes), jobID)

	if err := p.checkBudget(start, state); err != nil {
		return nil, err
	}

	result, err := p.chain.Extract(upload.FileBytes)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(result.Text)
	state = domain.StateTextExtracted
	log.Printf("service.Pipeline.Process: extracted %d chars via %s (%d attempts)",
		len(text), result.Strategy, len(result.Attempts))

	if len(text) < domain.MinUsableTextChars {
		return nil, domain.ErrNoExtractableText
	}

	resumeID := uuid.New()
	s3Key := p.s3cfg.ResumePrefix + resumeID.String() + ".pdf"
	if _, err := p.storage.Upload(ctx, port.UploadInput{
		Bucket:      p.s3cfg.Bucket,
		Key:         s3Key,
		Body:        bytes.NewReader(upload.FileBytes),
		ContentType: "application/pdf",
		Size:        int64(len(upload.FileBytes)),
	}); err != nil {
		return nil, fmt.Errorf("%w: storage: %v", domain.ErrUploadFailed, err)
	}

	return p.finishIngestion(ctx, start, &ingestion{
		resumeID: resumeID,
		jobID:    jobID,
		fileName: upload.FileName,
		fileSize: int64(len(upload.FileBytes)),
		s3Key:    s3Key,
		text:     text,
		strategy: result.Strategy,
	})
}

// processStructured handles a pre-extracted submission: resume text embedded
// in a JSON body. There is no file and no extraction chain; the text joins
// the pipeline at the usable-text gate and proceeds to the AI calls.
func (p *Pipeline) processStructured(ctx context.Context, start time.Time, body []byte) (*ProcessOutput, error) {
	var sub structuredSubmission
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, domain.ErrInvalidJSON
	}
	text := strings.TrimSpace(sub.ResumeContent)
	jobID := strings.TrimSpace(sub.JobID)
	if text == "" {
		return nil, &domain.MissingFieldError{Field: "resume_content"}
	}
	if jobID == "" {
		return nil, &domain.MissingFieldError{Field: "job_description_id"}
	}
	log.Printf("service.Pipeline.Process: structured submission for job %s (%d chars)", jobID, len(text))

	if err := p.checkBudget(start, domain.StateDecoded); err != nil {
		return nil, err
	}
	if len(text) < domain.MinUsableTextChars {
		return nil, domain.ErrNoExtractableText
	}

	return p.finishIngestion(ctx, start, &ingestion{
		resumeID: uuid.New(),
		jobID:    jobID,
		text:     text,
		strategy: structuredStrategy,
	})
}

// ingestion carries one resume through the shared tail of the pipeline:
// metadata, section embeddings, bookkeeping, and indexing. File fields stay
// zero for structured submissions, which persist no object.
type ingestion struct {
	resumeID uuid.UUID
	jobID    string
	fileName string
	fileSize int64
	s3Key    string
	text     string
	strategy string
}

func (p *Pipeline) finishIngestion(ctx context.Context, start time.Time, in *ingestion) (*ProcessOutput, error) {
	meta := p.metadata.ExtractResume(ctx, in.text)
	embeddings := p.embedSections(ctx, meta)

	if err := p.checkBudget(start, domain.StateEmbeddingsComputed); err != nil {
		return nil, err
	}

	rec := &domain.ResumeRecord{
		ID:             in.resumeID,
		JobID:          in.jobID,
		FileName:       in.fileName,
		FileSize:       in.fileSize,
		S3Bucket:       p.s3cfg.Bucket,
		S3Key:          in.s3Key,
		CandidateName:  meta.FullName,
		TextLength:     len(in.text),
		ExtractionUsed: in.strategy,
		Status:         domain.ResumeStatusStored,
	}
	if err := p.resumes.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("storage bookkeeping: %w", err)
	}

	doc := &domain.ResumeDocument{
		ResumeID:      in.resumeID.String(),
		JobID:         in.jobID,
		FileName:      in.fileName,
		CandidateName: meta.FullName,
		S3Key:         in.s3Key,
		UploadDate:    p.now().UTC(),
		Metadata:      *meta,
		Embeddings:    embeddings,
		RawPreview:    preview(in.text, p.cfg.RawPreviewChars),
	}
	if err := p.index.IndexResume(ctx, doc); err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	if err := p.resumes.UpdateStatus(ctx, in.resumeID, domain.ResumeStatusIndexed); err != nil {
		log.Printf("service.Pipeline.Process: status update failed for %s: %v", in.resumeID, err)
	}

	out := &ProcessOutput{
		ResumeID:      in.resumeID.String(),
		JobID:         in.jobID,
		FileName:      in.fileName,
		FileSize:      in.fileSize,
		CandidateName: meta.FullName,
		TextLength:    len(in.text),
		Strategy:      in.strategy,
		SkillsCount:   len(meta.Skills),
		S3Key:         in.s3Key,
	}
	if meta.ErrorSummary != "" {
		out.Warnings = append(out.Warnings, "metadata extraction degraded: "+meta.ErrorSummary)
	}
	log.Printf("service.Pipeline.Process: completed %s for job %s in %s",
		in.resumeID, in.jobID, p.now().Sub(start).Round(time.Millisecond))
	return out, nil
}

// handleStorageEvent acknowledges bucket notifications without reprocessing:
// the multipart path already handled the object, so a second pass would
// duplicate the index entry.
func (p *Pipeline) handleStorageEvent(req *ingest.Request) (*ProcessOutput, error) {
	bucket, key, ok := ingest.ParseStorageEvent(req)
	if !ok {
		return nil, domain.ErrInvalidJSON
	}
	log.Printf("service.Pipeline.Process: storage event for s3://%s/%s acknowledged, skipping", bucket, key)
	return &ProcessOutput{
		S3Key:      key,
		Skipped:    true,
		SkipReason: "storage events are acknowledged without reprocessing",
	}, nil
}

func (p *Pipeline) checkBudget(start time.Time, state domain.PipelineState) error {
	elapsed := p.now().Sub(start)
	if elapsed <= p.cfg.SoftBudget {
		return nil
	}
	return &TimeoutError{
		Stage:     state,
		Elapsed:   elapsed,
		Completed: completedThrough(state),
	}
}

func completedThrough(state domain.PipelineState) []domain.PipelineState {
	order := []domain.PipelineState{
		domain.StateReceived,
		domain.StateClassified,
		domain.StateDecoded,
		domain.StateTextExtracted,
		domain.StateMetadataExtracted,
		domain.StateEmbeddingsComputed,
		domain.StateIndexed,
	}
	for i, s := range order {
		if s == state {
			return order[:i+1]
		}
	}
	return order[:1]
}

// embedSections computes the four section vectors on a bounded fan-out.
// Per-section failures already degrade to zero vectors inside the embedder.
func (p *Pipeline) embedSections(ctx context.Context, meta *domain.ResumeMetadata) domain.SectionEmbeddings {
	sections := []struct {
		text string
		dst  *[]float32
	}{
		{strings.Join(meta.Skills, ", "), nil},
		{flattenExperience(meta.WorkExperience), nil},
		{strings.Join(meta.Certifications, ", "), nil},
		{flattenProjects(meta.Projects), nil},
	}

	var embeddings domain.SectionEmbeddings
	sections[0].dst = &embeddings.Skills
	sections[1].dst = &embeddings.Experience
	sections[2].dst = &embeddings.Certifications
	sections[3].dst = &embeddings.Projects

	concurrency := p.cfg.EmbeddingConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	for i := range sections {
		wg.Add(1)
		go func(text string, dst *[]float32) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			*dst = p.embedder.Embed(ctx, text)
		}(sections[i].text, sections[i].dst)
	}
	wg.Wait()
	return embeddings
}

func flattenExperience(entries []domain.WorkExperience) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		segment := strings.TrimSpace(strings.Join([]string{e.JobTitle, e.Company, e.Duration, e.Description}, " "))
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, ". ")
}

func flattenProjects(entries []domain.Project) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		segment := strings.TrimSpace(e.Title + " " + e.Description)
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, ". ")
}

func preview(text string, max int) string {
	if max <= 0 {
		max = 500
	}
	if len(text) <= max {
		return text
	}
	return text[:max]
}
