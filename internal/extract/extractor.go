// Package extract pulls readable text out of PDF bytes through an ordered
// chain of strategies. Resume-builder tools produce PDFs whose text hides
// from structured parsers behind unusual glyph and positioning operators, so
// the chain ends in raw-content salvage and a combined pass rather than
// giving up. "No text found" is a result, not an error.
package extract

import (
	"bytes"
	"log"
	"strings"

	"candix/internal/domain"
)

const (
	// structuredThreshold is the "meaningful content" floor for structured
	// parsers: a small nonzero yield is probably operator noise, so the
	// chain continues instead of stopping.
	structuredThreshold = 100

	// salvageThreshold is the lower floor accepted from raw salvage.
	salvageThreshold = 50

	// combineFloor is the minimum length for a strategy's output to
	// contribute to the combined pass.
	combineFloor = 10
)

// Strategy is one independent technique for extracting text from PDF bytes.
type Strategy interface {
	Name() string
	Extract(data []byte) (string, error)
}

// Attempt records one strategy's outcome for instrumentation.
type Attempt struct {
	Strategy string
	Chars    int
	Err      error
}

// Result is the final text chosen from the chain, with the strategy that
// produced it and the full attempt trail.
type Result struct {
	Text     string
	Strategy string
	Attempts []Attempt
}

// Chain runs strategies in a fixed order with explicit success criteria.
type Chain struct {
	structured []Strategy
	salvage    Strategy
}

// NewChain builds the default chain: ledongthuc page extraction, then pdfcpu
// content-stream walking, then raw salvage across candidate encodings.
func NewChain() *Chain {
	return &Chain{
		structured: []Strategy{&pageTextStrategy{}, &contentStreamStrategy{}},
		salvage:    &salvageStrategy{},
	}
}

// NewChainWith builds a chain from explicit strategies, for tests.
func NewChainWith(structured []Strategy, salvage Strategy) *Chain {
	return &Chain{structured: structured, salvage: salvage}
}

// Extract applies the chain to fileBytes. It errors only for structurally
// invalid input (missing magic signature); exhausting every strategy returns
// an empty Result for the orchestrator to judge.
func (c *Chain) Extract(fileBytes []byte) (*Result, error) {
	if !bytes.HasPrefix(fileBytes, domain.PDFMagic) {
		return nil, domain.ErrInvalidPDF
	}

	res := &Result{}

	for _, s := range c.structured {
		text := c.attempt(res, s, fileBytes)
		if len(strings.TrimSpace(text)) > structuredThreshold {
			log.Printf("extract.Chain: %s succeeded with %d chars", s.Name(), len(text))
			res.Text = strings.TrimSpace(text)
			res.Strategy = s.Name()
			return res, nil
		}
	}

	text := c.attempt(res, c.salvage, fileBytes)
	if len(strings.TrimSpace(text)) > salvageThreshold {
		log.Printf("extract.Chain: %s succeeded with %d chars", c.salvage.Name(), len(text))
		res.Text = strings.TrimSpace(text)
		res.Strategy = c.salvage.Name()
		return res, nil
	}

	if combined := c.combined(res, fileBytes); combined != "" {
		log.Printf("extract.Chain: combined pass recovered %d chars", len(combined))
		res.Text = combined
		res.Strategy = "combined"
		return res, nil
	}

	log.Printf("extract.Chain: all extraction strategies exhausted")
	return res, nil
}

// attempt runs one strategy, swallowing its error into the attempt trail.
// Individual strategy failures are expected and logged at low severity.
func (c *Chain) attempt(res *Result, s Strategy, data []byte) string {
	text, err := s.Extract(data)
	if err != nil {
		log.Printf("extract.Chain: strategy %s failed: %v", s.Name(), err)
	}
	res.Attempts = append(res.Attempts, Attempt{Strategy: s.Name(), Chars: len(text), Err: err})
	return text
}

// combined reruns every strategy and merges all non-trivial outputs with
// word-level dedupe. Some documents yield partial, complementary text under
// different strategies.
func (c *Chain) combined(res *Result, data []byte) string {
	var pieces []string
	all := append(append([]Strategy{}, c.structured...), c.salvage)
	for _, s := range all {
		text := c.attempt(res, s, data)
		if len(strings.TrimSpace(text)) > combineFloor {
			pieces = append(pieces, text)
		}
	}
	if len(pieces) == 0 {
		return ""
	}
	return dedupeWords(strings.Join(pieces, " "))
}

// dedupeWords removes duplicate words case-insensitively while preserving
// first-seen order.
func dedupeWords(text string) string {
	words := strings.Fields(text)
	seen := make(map[string]struct{}, len(words))
	unique := words[:0]
	for _, w := range words {
		key := strings.ToLower(w)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, w)
	}
	return strings.Join(unique, " ")
}
