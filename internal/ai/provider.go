// Package ai implements the metadata-extraction and embedding collaborators
// on top of LLM provider HTTP APIs. Providers are tried in fallback order
// with per-provider rate-limit circuits; the exported collaborators never
// propagate provider failures — they degrade to fallback records and zero
// vectors so a partially-indexed document beats a hard failure this late in
// the pipeline.
package ai

import (
	"context"
)

// Provider is a single LLM completion backend: prompt in, raw text out.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}
