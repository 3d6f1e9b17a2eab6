package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candix/internal/ai"
)

const resumeJSON = `{
	"full_name": "Jordan Rivera",
	"email": "jordan@example.com",
	"skills": ["Proficient in Go", "Kubernetes", "kubernetes", "Experience with PostgreSQL and Redis"],
	"work_experience": [{"job_title": "Backend Engineer", "company": "Acme", "duration": "2020-2023", "description": "Built services"}],
	"certifications": ["CKA"],
	"projects": [{"title": "Pipeline", "description": "Streaming ingestion"}],
	"education": ["BSc Computer Science"],
	"summary": "Backend engineer"
}`

func TestExtractor_ExtractResume(t *testing.T) {
	p := &stubProvider{name: "gemini", out: resumeJSON}
	ex := ai.NewExtractor(p)

	meta := ex.ExtractResume(context.Background(), "resume text")

	require.NotNil(t, meta)
	assert.Equal(t, "Jordan Rivera", meta.FullName)
	assert.Empty(t, meta.ErrorSummary)
	// Skill prefixes stripped, compounds split, case-insensitive dedupe.
	assert.Equal(t, []string{"Go", "Kubernetes", "PostgreSQL"}, meta.Skills)
	require.Len(t, meta.WorkExperience, 1)
	assert.Equal(t, "Backend Engineer", meta.WorkExperience[0].JobTitle)
}

func TestExtractor_ExtractResume_JSONWrappedInProse(t *testing.T) {
	p := &stubProvider{name: "gemini", out: "Here is the extraction:\n```json\n" + resumeJSON + "\n```\nDone."}
	ex := ai.NewExtractor(p)

	meta := ex.ExtractResume(context.Background(), "resume text")

	assert.Equal(t, "Jordan Rivera", meta.FullName)
	assert.Empty(t, meta.ErrorSummary)
}

func TestExtractor_ExtractResume_ProviderFailureFallsBack(t *testing.T) {
	p := &stubProvider{name: "gemini", err: errors.New("upstream unavailable")}
	ex := ai.NewExtractor(p)

	meta := ex.ExtractResume(context.Background(), "resume text")

	require.NotNil(t, meta)
	assert.Equal(t, "Unknown", meta.FullName)
	assert.NotEmpty(t, meta.ErrorSummary)
	assert.Empty(t, meta.Skills)
	assert.NotNil(t, meta.Skills)
}

func TestExtractor_ExtractResume_MalformedOutputFallsBack(t *testing.T) {
	p := &stubProvider{name: "gemini", out: "I could not parse this document, sorry."}
	ex := ai.NewExtractor(p)

	meta := ex.ExtractResume(context.Background(), "resume text")

	assert.Equal(t, "Unknown", meta.FullName)
	assert.NotEmpty(t, meta.ErrorSummary)
}

func TestExtractor_ExtractJob(t *testing.T) {
	p := &stubProvider{name: "gemini", out: `{
		"title": "Platform Engineer",
		"company": "Acme",
		"required_skills": ["Go", "Terraform", "go"],
		"experience": "3-5 years",
		"summary": "Own the platform."
	}`}
	ex := ai.NewExtractor(p)

	meta := ex.ExtractJob(context.Background(), "job text")

	assert.Equal(t, "Platform Engineer", meta.Title)
	assert.Equal(t, []string{"Go", "Terraform"}, meta.RequiredSkills)
	assert.Empty(t, meta.ErrorSummary)
}

func TestExtractor_ExtractJob_FailureFallsBack(t *testing.T) {
	p := &stubProvider{name: "gemini", err: errors.New("boom")}
	ex := ai.NewExtractor(p)

	meta := ex.ExtractJob(context.Background(), "job text")

	assert.Equal(t, "Unknown", meta.Title)
	assert.NotEmpty(t, meta.ErrorSummary)
}
