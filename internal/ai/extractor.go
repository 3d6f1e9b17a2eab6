package ai

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"strings"

	"candix/internal/domain"
)

// maxPromptChars caps the amount of document text sent to a provider.
const maxPromptChars = 12000

var (
	jsonObjectRe  = regexp.MustCompile(`(?s)\{.*\}`)
	skillPrefixRe = regexp.MustCompile(`(?i)^(experience with|proficient in|skilled in|knowledge of|familiar with)\s+`)
)

// Extractor derives structured metadata from document text via an LLM
// provider chain. It implements port.MetadataExtractor: provider or parse
// failures degrade to a fallback record instead of an error.
type Extractor struct {
	provider Provider
}

// NewExtractor creates an Extractor on top of the given provider (usually a
// FallbackProvider).
func NewExtractor(provider Provider) *Extractor {
	return &Extractor{provider: provider}
}

func (e *Extractor) ExtractResume(ctx context.Context, text string) *domain.ResumeMetadata {
	out, err := e.provider.Complete(ctx, BuildResumePrompt(truncate(text, maxPromptChars)))
	if err != nil {
		log.Printf("ai.Extractor.ExtractResume: provider chain failed: %v", err)
		return fallbackResumeMetadata(err.Error())
	}

	raw, ok := extractJSONObject(out)
	if !ok {
		log.Printf("ai.Extractor.ExtractResume: no JSON object in provider output")
		return fallbackResumeMetadata("provider returned no parseable JSON")
	}

	var meta domain.ResumeMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		log.Printf("ai.Extractor.ExtractResume: decoding metadata: %v", err)
		return fallbackResumeMetadata("provider returned malformed JSON")
	}

	normalizeResumeMetadata(&meta)
	log.Printf("ai.Extractor.ExtractResume: extracted metadata for %q (%d skills, %d roles)",
		meta.FullName, len(meta.Skills), len(meta.WorkExperience))
	return &meta
}

func (e *Extractor) ExtractJob(ctx context.Context, text string) *domain.JobMetadata {
	out, err := e.provider.Complete(ctx, BuildJobPrompt(truncate(text, maxPromptChars)))
	if err != nil {
		log.Printf("ai.Extractor.ExtractJob: provider chain failed: %v", err)
		return fallbackJobMetadata(err.Error())
	}

	raw, ok := extractJSONObject(out)
	if !ok {
		log.Printf("ai.Extractor.ExtractJob: no JSON object in provider output")
		return fallbackJobMetadata("provider returned no parseable JSON")
	}

	var meta domain.JobMetadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		log.Printf("ai.Extractor.ExtractJob: decoding metadata: %v", err)
		return fallbackJobMetadata("provider returned malformed JSON")
	}

	meta.RequiredSkills = normalizeSkills(meta.RequiredSkills)
	return &meta
}

// extractJSONObject finds the JSON object in raw provider output, which may
// be wrapped in code fences or prose.
func extractJSONObject(out string) ([]byte, bool) {
	trimmed := strings.TrimSpace(out)
	if json.Valid([]byte(trimmed)) && strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), true
	}
	match := jsonObjectRe.FindString(trimmed)
	if match == "" {
		return nil, false
	}
	if !json.Valid([]byte(match)) {
		return nil, false
	}
	return []byte(match), true
}

func normalizeResumeMetadata(meta *domain.ResumeMetadata) {
	if strings.TrimSpace(meta.FullName) == "" {
		meta.FullName = "Unknown"
	}
	meta.Skills = normalizeSkills(meta.Skills)
	if meta.Skills == nil {
		meta.Skills = []string{}
	}
	if meta.WorkExperience == nil {
		meta.WorkExperience = []domain.WorkExperience{}
	}
	if meta.Certifications == nil {
		meta.Certifications = []string{}
	}
	if meta.Projects == nil {
		meta.Projects = []domain.Project{}
	}
	if meta.Education == nil {
		meta.Education = []string{}
	}
}

// normalizeSkills trims verbose prefixes, splits compound tokens, and drops
// empty or overlong entries.
func normalizeSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	processed := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		skill = skillPrefixRe.ReplaceAllString(skill, "")
		if idx := strings.Index(skill, " and "); idx >= 0 {
			skill = skill[:idx]
		}
		if idx := strings.Index(skill, ","); idx >= 0 {
			skill = skill[:idx]
		}
		skill = strings.TrimSpace(skill)
		if skill == "" || len(skill) >= 50 {
			continue
		}
		key := strings.ToLower(skill)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		processed = append(processed, skill)
	}
	return processed
}

func fallbackResumeMetadata(summary string) *domain.ResumeMetadata {
	return &domain.ResumeMetadata{
		FullName:       "Unknown",
		Skills:         []string{},
		WorkExperience: []domain.WorkExperience{},
		Certifications: []string{},
		Projects:       []domain.Project{},
		Education:      []string{},
		ErrorSummary:   summary,
	}
}

func fallbackJobMetadata(summary string) *domain.JobMetadata {
	return &domain.JobMetadata{
		Title:          "Unknown",
		RequiredSkills: []string{},
		ErrorSummary:   summary,
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
