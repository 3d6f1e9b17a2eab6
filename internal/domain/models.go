package domain

import (
	"time"

	"github.com/google/uuid"
)

// ResumeRecord is the bookkeeping row for one processed resume upload.
type ResumeRecord struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	JobID          string       `db:"job_id" json:"job_id"`
	FileName       string       `db:"file_name" json:"file_name"`
	FileSize       int64        `db:"file_size" json:"file_size"`
	S3Bucket       string       `db:"s3_bucket" json:"s3_bucket"`
	S3Key          string       `db:"s3_key" json:"s3_key"`
	CandidateName  string       `db:"candidate_name" json:"candidate_name"`
	TextLength     int          `db:"text_length" json:"text_length"`
	ExtractionUsed string       `db:"extraction_used" json:"extraction_used"`
	Status         ResumeStatus `db:"status" json:"status"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// JobRecord is the bookkeeping row for one ingested job description.
type JobRecord struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	S3Bucket   string    `db:"s3_bucket" json:"s3_bucket"`
	S3Key      string    `db:"s3_key" json:"s3_key"`
	TextLength int       `db:"text_length" json:"text_length"`
	Status     JobStatus `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// WorkExperience is one entry of a candidate's employment history.
type WorkExperience struct {
	JobTitle    string `json:"job_title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is one entry of a candidate's project list.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ResumeMetadata is the structured record the metadata collaborator derives
// from resume text. All fields default rather than fail: a provider error
// yields a fallback record with ErrorSummary set.
type ResumeMetadata struct {
	FullName       string           `json:"full_name"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Location       string           `json:"location,omitempty"`
	Skills         []string         `json:"skills"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Certifications []string         `json:"certifications"`
	Projects       []Project        `json:"projects"`
	Education      []string         `json:"education"`
	Summary        string           `json:"summary,omitempty"`
	ErrorSummary   string           `json:"error_summary,omitempty"`
}

// JobMetadata is the structured record derived from a job description.
type JobMetadata struct {
	Title          string   `json:"title"`
	Company        string   `json:"company,omitempty"`
	Location       string   `json:"location,omitempty"`
	RequiredSkills []string `json:"required_skills"`
	Experience     string   `json:"experience,omitempty"`
	Summary        string   `json:"summary,omitempty"`
	ErrorSummary   string   `json:"error_summary,omitempty"`
}

// SectionEmbeddings holds the per-section vectors indexed with a resume.
type SectionEmbeddings struct {
	Skills         []float32 `json:"skills_vector"`
	Experience     []float32 `json:"experience_vector"`
	Certifications []float32 `json:"certification_vector"`
	Projects       []float32 `json:"projects_vector"`
}

// ResumeDocument is the search-index document for a processed resume.
type ResumeDocument struct {
	ResumeID      string            `json:"resume_id"`
	JobID         string            `json:"job_description_id"`
	FileName      string            `json:"file_name"`
	CandidateName string            `json:"candidate_name"`
	S3Key         string            `json:"s3_key"`
	UploadDate    time.Time         `json:"upload_date"`
	Metadata      ResumeMetadata    `json:"metadata"`
	Embeddings    SectionEmbeddings `json:"embeddings"`
	RawPreview    string            `json:"raw_text_preview"`
}

// JobDocument is the search-index document for an ingested job description.
type JobDocument struct {
	JobID      string      `json:"job_id"`
	Title      string      `json:"title"`
	S3Key      string      `json:"s3_key"`
	UploadDate time.Time   `json:"upload_date"`
	Metadata   JobMetadata `json:"metadata"`
	Vector     []float32   `json:"description_vector"`
	Text       string      `json:"description_text"`
}

// MatchResult is one ranked resume returned by a similarity query.
type MatchResult struct {
	ResumeID      string             `json:"resume_id"`
	CandidateName string             `json:"candidate_name"`
	FileName      string             `json:"file_name"`
	Score         float64            `json:"similarity_score"`
	SectionScores map[string]float64 `json:"vector_scores"`
	Skills        []string           `json:"skills,omitempty"`
}
