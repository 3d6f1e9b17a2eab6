// Package bluge implements port.SearchIndex on an embedded bluge index.
// Documents are stored whole as JSON in a stored-only field; keyword fields
// carry the identifiers used for lookups. Section vectors live inside the
// stored JSON and similarity is computed at query time by the match service.
package bluge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/blugelabs/bluge"
	"github.com/blugelabs/bluge/search"

	"candix/internal/domain"
)

const (
	fieldKind   = "kind"
	fieldJobID  = "job_id"
	fieldSource = "_source"

	kindResume = "resume"
	kindJob    = "job"
)

// Index is a bluge-backed SearchIndex. A single writer is held open for the
// process lifetime; readers are opened per query.
type Index struct {
	mu     sync.Mutex
	writer *bluge.Writer
}

// Open opens (or creates) the index at path.
func Open(path string) (*Index, error) {
	cfg := bluge.DefaultConfig(path)
	writer, err := bluge.OpenWriter(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening bluge writer: %w", err)
	}
	return &Index{writer: writer}, nil
}

// Close releases the underlying writer.
func (i *Index) Close() error {
	return i.writer.Close()
}

func (i *Index) IndexResume(ctx context.Context, doc *domain.ResumeDocument) error {
	source, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding resume document: %w", err)
	}

	id := "resume:" + doc.ResumeID
	blugeDoc := bluge.NewDocument(id)
	blugeDoc.AddField(bluge.NewKeywordField(fieldKind, kindResume).StoreValue())
	blugeDoc.AddField(bluge.NewKeywordField(fieldJobID, doc.JobID).StoreValue())
	blugeDoc.AddField(bluge.NewTextField("candidate_name", doc.CandidateName))
	blugeDoc.AddField(bluge.NewTextField("raw_text_preview", doc.RawPreview))
	blugeDoc.AddField(bluge.NewStoredOnlyField(fieldSource, source))

	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.writer.Update(blugeDoc.ID(), blugeDoc); err != nil {
		return fmt.Errorf("%w: indexing resume %s: %v", domain.ErrIndexFailed, doc.ResumeID, err)
	}
	log.Printf("bluge.Index.IndexResume: indexed %s for job %s", doc.ResumeID, doc.JobID)
	return nil
}

func (i *Index) IndexJob(ctx context.Context, doc *domain.JobDocument) error {
	source, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding job document: %w", err)
	}

	id := "job:" + doc.JobID
	blugeDoc := bluge.NewDocument(id)
	blugeDoc.AddField(bluge.NewKeywordField(fieldKind, kindJob).StoreValue())
	blugeDoc.AddField(bluge.NewKeywordField(fieldJobID, doc.JobID).StoreValue())
	blugeDoc.AddField(bluge.NewTextField("title", doc.Title))
	blugeDoc.AddField(bluge.NewStoredOnlyField(fieldSource, source))

	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.writer.Update(blugeDoc.ID(), blugeDoc); err != nil {
		return fmt.Errorf("%w: indexing job %s: %v", domain.ErrIndexFailed, doc.JobID, err)
	}
	log.Printf("bluge.Index.IndexJob: indexed %s (%s)", doc.JobID, doc.Title)
	return nil
}

func (i *Index) GetJob(ctx context.Context, jobID string) (*domain.JobDocument, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(kindJob).SetField(fieldKind)).
		AddMust(bluge.NewTermQuery(jobID).SetField(fieldJobID))
	req := bluge.NewTopNSearch(1, query)

	dmi, err := reader.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching for job %s: %w", jobID, err)
	}

	match, err := dmi.Next()
	if err != nil {
		return nil, fmt.Errorf("iterating job matches: %w", err)
	}
	if match == nil {
		return nil, fmt.Errorf("job %s: %w", jobID, domain.ErrJobNotFound)
	}

	var doc domain.JobDocument
	if err := visitSource(match, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (i *Index) ResumesForJob(ctx context.Context, jobID string, limit int) ([]domain.ResumeDocument, error) {
	if limit <= 0 {
		limit = 100
	}

	reader, err := i.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("opening index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(kindResume).SetField(fieldKind)).
		AddMust(bluge.NewTermQuery(jobID).SetField(fieldJobID))
	req := bluge.NewTopNSearch(limit, query)

	dmi, err := reader.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("searching resumes for job %s: %w", jobID, err)
	}

	var docs []domain.ResumeDocument
	for {
		match, err := dmi.Next()
		if err != nil {
			return nil, fmt.Errorf("iterating resume matches: %w", err)
		}
		if match == nil {
			break
		}
		var doc domain.ResumeDocument
		if err := visitSource(match, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func visitSource(match *search.DocumentMatch, out interface{}) error {
	var source []byte
	err := match.VisitStoredFields(func(field string, value []byte) bool {
		if field == fieldSource {
			source = append([]byte(nil), value...)
			return false
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("visiting stored fields: %w", err)
	}
	if source == nil {
		return errors.New("document missing stored source")
	}
	if err := json.Unmarshal(source, out); err != nil {
		return fmt.Errorf("decoding stored source: %w", err)
	}
	return nil
}
