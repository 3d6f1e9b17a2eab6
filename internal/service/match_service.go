package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"candix/internal/domain"
	"candix/internal/port"
)

// Section weights for the composite score. Skills dominate, experience
// second, credentials and projects share the remainder.
const (
	weightSkills         = 0.40
	weightExperience     = 0.30
	weightCertifications = 0.15
	weightProjects       = 0.15
)

// maxCandidates bounds how many indexed resumes one match query considers.
const maxCandidates = 500

// MatchQuery narrows a ranked match listing.
type MatchQuery struct {
	JobID    string
	TopK     int
	MinScore float64
}

// MatchService ranks indexed resumes against a job description by weighted
// cosine similarity over section vectors.
type MatchService struct {
	index port.SearchIndex
}

// NewMatchService wires a MatchService.
func NewMatchService(index port.SearchIndex) *MatchService {
	return &MatchService{index: index}
}

// Matches returns resumes for the job ranked by composite similarity.
func (s *MatchService) Matches(ctx context.Context, q MatchQuery) ([]domain.MatchResult, error) {
	job, err := s.index.GetJob(ctx, q.JobID)
	if err != nil {
		return nil, err
	}

	docs, err := s.index.ResumesForJob(ctx, q.JobID, maxCandidates)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.MatchResult, 0, len(docs))
	for _, doc := range docs {
		sectionScores := map[string]float64{
			"skills":         cosine(job.Vector, doc.Embeddings.Skills),
			"experience":     cosine(job.Vector, doc.Embeddings.Experience),
			"certifications": cosine(job.Vector, doc.Embeddings.Certifications),
			"projects":       cosine(job.Vector, doc.Embeddings.Projects),
		}
		score := weightSkills*sectionScores["skills"] +
			weightExperience*sectionScores["experience"] +
			weightCertifications*sectionScores["certifications"] +
			weightProjects*sectionScores["projects"]

		if score < q.MinScore {
			continue
		}
		results = append(results, domain.MatchResult{
			ResumeID:      doc.ResumeID,
			CandidateName: doc.CandidateName,
			FileName:      doc.FileName,
			Score:         score,
			SectionScores: sectionScores,
			Skills:        doc.Metadata.Skills,
		})
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if q.TopK > 0 && len(results) > q.TopK {
		results = results[:q.TopK]
	}

	log.Printf("service.MatchService.Matches: job %s, %d candidates, %d returned",
		q.JobID, len(docs), len(results))
	return results, nil
}

// cosine returns the cosine similarity of two vectors, 0 when either is a
// zero vector or lengths differ.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
