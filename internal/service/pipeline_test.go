package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"candix/internal/config"
	"candix/internal/domain"
	"candix/internal/extract"
	"candix/internal/ingest"
	"candix/internal/port"
	"candix/internal/service"
	"candix/mocks"
)

const testBoundary = "TESTBOUND123"

// stubStrategy is an extraction strategy with a fixed outcome.
type stubStrategy struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(data []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

// stubClock returns the given instants in sequence, repeating the last one.
func stubClock(instants ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := instants[i]
		if i < len(instants)-1 {
			i++
		}
		return t
	}
}

func multipartBody(size int) []byte {
	content := make([]byte, size)
	copy(content, "%PDF-1.4\n")
	for i := len("%PDF-1.4\n"); i < size; i++ {
		content[i] = byte('a' + i%26)
	}

	var sb strings.Builder
	sb.WriteString("--" + testBoundary + "\r\n")
	sb.WriteString("Content-Disposition: form-data; name=\"job_description_id\"\r\n\r\njob-42\r\n")
	sb.WriteString("--" + testBoundary + "\r\n")
	sb.WriteString("Content-Disposition: form-data; name=\"resume\"; filename=\"cv.pdf\"\r\n")
	sb.WriteString("Content-Type: application/pdf\r\n\r\n")
	sb.Write(content)
	sb.WriteString("\r\n--" + testBoundary + "--\r\n")
	return []byte(sb.String())
}

func multipartRequest(size int) *ingest.Request {
	return &ingest.Request{
		Headers: map[string]string{"Content-Type": "multipart/form-data; boundary=" + testBoundary},
		RawBody: multipartBody(size),
	}
}

func resumeText() string {
	return strings.Repeat("Seasoned backend engineer with distributed systems experience. ", 5)
}

func happyMeta() *domain.ResumeMetadata {
	return &domain.ResumeMetadata{
		FullName:       "Jordan Rivera",
		Skills:         []string{"Go", "PostgreSQL"},
		WorkExperience: []domain.WorkExperience{{JobTitle: "Engineer", Company: "Acme"}},
		Certifications: []string{},
		Projects:       []domain.Project{},
		Education:      []string{},
	}
}

type pipelineDeps struct {
	storage  *mocks.MockObjectStorage
	metadata *mocks.MockMetadataExtractor
	embedder *mocks.MockEmbedder
	index    *mocks.MockSearchIndex
	resumes  *mocks.MockResumeRepo
}

func newPipeline(chain *extract.Chain) (*service.Pipeline, *pipelineDeps) {
	deps := &pipelineDeps{
		storage:  new(mocks.MockObjectStorage),
		metadata: new(mocks.MockMetadataExtractor),
		embedder: new(mocks.MockEmbedder),
		index:    new(mocks.MockSearchIndex),
		resumes:  new(mocks.MockResumeRepo),
	}
	p := service.NewPipeline(
		chain, deps.storage, deps.metadata, deps.embedder, deps.index, deps.resumes,
		config.S3Config{Bucket: "uploads", ResumePrefix: "resumes/"},
		config.PipelineConfig{SoftBudget: 25 * time.Second, EmbeddingConcurrency: 4, RawPreviewChars: 500},
	)
	return p, deps
}

func (d *pipelineDeps) expectHappyPath() {
	d.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	d.metadata.On("ExtractResume", mock.Anything, mock.Anything).Return(happyMeta())
	d.embedder.On("Embed", mock.Anything, mock.Anything).Return(make([]float32, domain.EmbeddingDimension))
	d.index.On("IndexResume", mock.Anything, mock.Anything).Return(nil)
	d.resumes.On("Create", mock.Anything, mock.Anything).Return(nil)
	d.resumes.On("UpdateStatus", mock.Anything, mock.Anything, domain.ResumeStatusIndexed).Return(nil)
}

func TestPipeline_ProcessEndToEnd(t *testing.T) {
	structured := &stubStrategy{name: "pagetext", text: resumeText()}
	chain := extract.NewChainWith([]extract.Strategy{structured}, &stubStrategy{name: "salvage"})

	p, deps := newPipeline(chain)
	deps.expectHappyPath()

	out, err := p.Process(context.Background(), multipartRequest(50_000))

	require.NoError(t, err)
	assert.Equal(t, "job-42", out.JobID)
	assert.Equal(t, "cv.pdf", out.FileName)
	assert.Equal(t, "Jordan Rivera", out.CandidateName)
	assert.Equal(t, "pagetext", out.Strategy)
	assert.Equal(t, int64(50_000), out.FileSize)
	assert.Equal(t, 2, out.SkillsCount)
	assert.NotEmpty(t, out.ResumeID)
	assert.True(t, strings.HasPrefix(out.S3Key, "resumes/"))

	deps.storage.AssertNumberOfCalls(t, "Upload", 1)
	deps.embedder.AssertNumberOfCalls(t, "Embed", 4)
	deps.index.AssertNumberOfCalls(t, "IndexResume", 1)
	deps.resumes.AssertNumberOfCalls(t, "Create", 1)
}

func TestPipeline_MissingRequiredField(t *testing.T) {
	chain := extract.NewChainWith([]extract.Strategy{&stubStrategy{name: "pagetext"}}, &stubStrategy{name: "salvage"})
	p, _ := newPipeline(chain)

	content := multipartBody(400)
	body := strings.Replace(string(content),
		"Content-Disposition: form-data; name=\"job_description_id\"\r\n\r\njob-42\r\n--"+testBoundary+"\r\n", "", 1)
	req := &ingest.Request{
		Headers: map[string]string{"Content-Type": "multipart/form-data; boundary=" + testBoundary},
		RawBody: []byte(body),
	}

	_, err := p.Process(context.Background(), req)

	var missing *domain.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "job_description_id", missing.Field)
}

func TestPipeline_NoExtractableText(t *testing.T) {
	structured := &stubStrategy{name: "pagetext", text: "tiny"}
	salvage := &stubStrategy{name: "salvage", text: "also tiny"}
	chain := extract.NewChainWith([]extract.Strategy{structured}, salvage)

	p, deps := newPipeline(chain)

	_, err := p.Process(context.Background(), multipartRequest(50_000))

	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	deps.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	deps.metadata.AssertNotCalled(t, "ExtractResume", mock.Anything, mock.Anything)
}

func TestPipeline_TimeoutBeforeExtraction(t *testing.T) {
	structured := &stubStrategy{name: "pagetext", text: resumeText()}
	chain := extract.NewChainWith([]extract.Strategy{structured}, &stubStrategy{name: "salvage"})

	p, deps := newPipeline(chain)
	t0 := time.Now()
	p.WithClock(stubClock(t0, t0.Add(26*time.Second)))

	_, err := p.Process(context.Background(), multipartRequest(50_000))

	var timeout *service.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.ErrorIs(t, err, domain.ErrProcessingTimeout)
	assert.Equal(t, domain.StateDecoded, timeout.Stage)
	assert.Zero(t, structured.calls)
	deps.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestPipeline_TimeoutBeforeIndexing(t *testing.T) {
	structured := &stubStrategy{name: "pagetext", text: resumeText()}
	chain := extract.NewChainWith([]extract.Strategy{structured}, &stubStrategy{name: "salvage"})

	p, deps := newPipeline(chain)
	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.metadata.On("ExtractResume", mock.Anything, mock.Anything).Return(happyMeta())
	deps.embedder.On("Embed", mock.Anything, mock.Anything).Return(make([]float32, domain.EmbeddingDimension))

	t0 := time.Now()
	p.WithClock(stubClock(t0, t0.Add(time.Second), t0.Add(26*time.Second)))

	_, err := p.Process(context.Background(), multipartRequest(50_000))

	var timeout *service.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, domain.StateEmbeddingsComputed, timeout.Stage)
	assert.Contains(t, timeout.Completed, domain.StateTextExtracted)
	deps.index.AssertNotCalled(t, "IndexResume", mock.Anything, mock.Anything)
}

func structuredRequest(body string) *ingest.Request {
	return &ingest.Request{
		Headers: map[string]string{"Content-Type": "application/json"},
		RawBody: []byte(body),
	}
}

func TestPipeline_StructuredSubmission(t *testing.T) {
	structured := &stubStrategy{name: "pagetext"}
	chain := extract.NewChainWith([]extract.Strategy{structured}, &stubStrategy{name: "salvage"})

	p, deps := newPipeline(chain)
	deps.metadata.On("ExtractResume", mock.Anything, mock.Anything).Return(happyMeta())
	deps.embedder.On("Embed", mock.Anything, mock.Anything).Return(make([]float32, domain.EmbeddingDimension))
	deps.index.On("IndexResume", mock.Anything, mock.Anything).Return(nil)
	deps.resumes.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.resumes.On("UpdateStatus", mock.Anything, mock.Anything, domain.ResumeStatusIndexed).Return(nil)

	body, err := json.Marshal(map[string]string{
		"resume_content":     resumeText(),
		"job_description_id": "job-42",
	})
	require.NoError(t, err)

	out, err := p.Process(context.Background(), structuredRequest(string(body)))

	require.NoError(t, err)
	assert.Equal(t, "job-42", out.JobID)
	assert.Equal(t, "structured_json", out.Strategy)
	assert.Equal(t, "Jordan Rivera", out.CandidateName)
	assert.Equal(t, len(strings.TrimSpace(resumeText())), out.TextLength)
	assert.Empty(t, out.FileName)
	assert.Empty(t, out.S3Key)
	assert.Zero(t, out.FileSize)
	assert.Zero(t, structured.calls)
	deps.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	deps.index.AssertNumberOfCalls(t, "IndexResume", 1)
}

func TestPipeline_StructuredSubmissionMissingFields(t *testing.T) {
	chain := extract.NewChainWith([]extract.Strategy{&stubStrategy{name: "pagetext"}}, &stubStrategy{name: "salvage"})
	p, _ := newPipeline(chain)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"no content", `{"job_description_id":"job-42"}`, "resume_content"},
		{"blank content", `{"resume_content":"   ","job_description_id":"job-42"}`, "resume_content"},
		{"no job", `{"resume_content":"seasoned engineer with a decade of backend work"}`, "job_description_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Process(context.Background(), structuredRequest(tc.body))

			var missing *domain.MissingFieldError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tc.want, missing.Field)
		})
	}
}

func TestPipeline_StructuredSubmissionShortText(t *testing.T) {
	chain := extract.NewChainWith([]extract.Strategy{&stubStrategy{name: "pagetext"}}, &stubStrategy{name: "salvage"})
	p, deps := newPipeline(chain)

	_, err := p.Process(context.Background(),
		structuredRequest(`{"resume_content":"too short","job_description_id":"job-42"}`))

	assert.ErrorIs(t, err, domain.ErrNoExtractableText)
	deps.metadata.AssertNotCalled(t, "ExtractResume", mock.Anything, mock.Anything)
}

func TestPipeline_StorageEventSkipped(t *testing.T) {
	chain := extract.NewChainWith([]extract.Strategy{&stubStrategy{name: "pagetext"}}, &stubStrategy{name: "salvage"})
	p, deps := newPipeline(chain)

	req := &ingest.Request{
		Body: `{"Records":[{"s3":{"bucket":{"name":"uploads"},"object":{"key":"resumes/a.pdf"}}}]}`,
	}

	out, err := p.Process(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, out.Skipped)
	deps.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestPipeline_DegradedMetadataYieldsWarning(t *testing.T) {
	structured := &stubStrategy{name: "pagetext", text: resumeText()}
	chain := extract.NewChainWith([]extract.Strategy{structured}, &stubStrategy{name: "salvage"})

	p, deps := newPipeline(chain)
	degraded := happyMeta()
	degraded.FullName = "Unknown"
	degraded.ErrorSummary = "provider chain exhausted"

	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.metadata.On("ExtractResume", mock.Anything, mock.Anything).Return(degraded)
	deps.embedder.On("Embed", mock.Anything, mock.Anything).Return(make([]float32, domain.EmbeddingDimension))
	deps.index.On("IndexResume", mock.Anything, mock.Anything).Return(nil)
	deps.resumes.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.resumes.On("UpdateStatus", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	out, err := p.Process(context.Background(), multipartRequest(50_000))

	require.NoError(t, err)
	assert.NotEmpty(t, out.Warnings)
	assert.Equal(t, "Unknown", out.CandidateName)
}

func TestPipeline_IndexFailureIsDependencyError(t *testing.T) {
	structured := &stubStrategy{name: "pagetext", text: resumeText()}
	chain := extract.NewChainWith([]extract.Strategy{structured}, &stubStrategy{name: "salvage"})

	p, deps := newPipeline(chain)
	deps.storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	deps.metadata.On("ExtractResume", mock.Anything, mock.Anything).Return(happyMeta())
	deps.embedder.On("Embed", mock.Anything, mock.Anything).Return(make([]float32, domain.EmbeddingDimension))
	deps.resumes.On("Create", mock.Anything, mock.Anything).Return(nil)
	deps.index.On("IndexResume", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := p.Process(context.Background(), multipartRequest(50_000))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search index")
}
