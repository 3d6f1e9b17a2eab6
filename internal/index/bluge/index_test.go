package bluge_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candix/internal/domain"
	blugeindex "candix/internal/index/bluge"
)

func openIndex(t *testing.T) *blugeindex.Index {
	t.Helper()
	idx, err := blugeindex.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndex_JobRoundTrip(t *testing.T) {
	idx := openIndex(t)
	ctx := context.Background()

	doc := &domain.JobDocument{
		JobID:  "job-1",
		Title:  "Backend Engineer",
		S3Key:  "job-descriptions/job-1.txt",
		Vector: []float32{0.1, 0.2, 0.3},
		Metadata: domain.JobMetadata{
			Title:          "Backend Engineer",
			RequiredSkills: []string{"Go", "PostgreSQL"},
		},
	}
	require.NoError(t, idx.IndexJob(ctx, doc))

	got, err := idx.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got.Vector)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, got.Metadata.RequiredSkills)
}

func TestIndex_GetJobMissing(t *testing.T) {
	idx := openIndex(t)

	_, err := idx.GetJob(context.Background(), "absent")

	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestIndex_ResumesForJobFiltersByJob(t *testing.T) {
	idx := openIndex(t)
	ctx := context.Background()

	for _, d := range []*domain.ResumeDocument{
		{ResumeID: "r1", JobID: "job-1", CandidateName: "Alice",
			Embeddings: domain.SectionEmbeddings{Skills: []float32{1, 0}}},
		{ResumeID: "r2", JobID: "job-1", CandidateName: "Bob"},
		{ResumeID: "r3", JobID: "job-2", CandidateName: "Cara"},
	} {
		require.NoError(t, idx.IndexResume(ctx, d))
	}

	docs, err := idx.ResumesForJob(ctx, "job-1", 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	byID := map[string]domain.ResumeDocument{}
	for _, d := range docs {
		byID[d.ResumeID] = d
	}
	assert.Contains(t, byID, "r1")
	assert.Contains(t, byID, "r2")
	assert.Equal(t, []float32{1, 0}, byID["r1"].Embeddings.Skills)
}

func TestIndex_ReindexReplacesDocument(t *testing.T) {
	idx := openIndex(t)
	ctx := context.Background()

	doc := &domain.ResumeDocument{ResumeID: "r1", JobID: "job-1", CandidateName: "Alice"}
	require.NoError(t, idx.IndexResume(ctx, doc))
	doc.CandidateName = "Alice Updated"
	require.NoError(t, idx.IndexResume(ctx, doc))

	docs, err := idx.ResumesForJob(ctx, "job-1", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Alice Updated", docs[0].CandidateName)
}
