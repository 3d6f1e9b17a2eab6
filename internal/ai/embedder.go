package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"candix/internal/config"
	"candix/internal/domain"
)

const embeddingBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiEmbedder produces section vectors via Gemini's embedContent API. It
// implements port.Embedder: any failure yields a zero vector so indexing can
// proceed with degraded ranking instead of failing the document.
type GeminiEmbedder struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewGeminiEmbedder creates an embedder from provider config.
func NewGeminiEmbedder(cfg *config.ProviderConfig) *GeminiEmbedder {
	return newGeminiEmbedder(cfg, "")
}

// NewGeminiEmbedderWithEndpoint creates an embedder pointing at a custom API
// endpoint (for testing).
func NewGeminiEmbedderWithEndpoint(cfg *config.ProviderConfig, endpoint string) *GeminiEmbedder {
	return newGeminiEmbedder(cfg, endpoint)
}

func newGeminiEmbedder(cfg *config.ProviderConfig, endpoint string) *GeminiEmbedder {
	model := cfg.Model
	if model == "" {
		model = "gemini-embedding-001"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if endpoint == "" {
		endpoint = fmt.Sprintf("%s/%s:embedContent", embeddingBaseURL, model)
	}
	return &GeminiEmbedder{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) []float32 {
	if text == "" {
		return zeroVector()
	}

	vec, err := e.embed(ctx, truncate(text, maxPromptChars))
	if err != nil {
		log.Printf("ai.GeminiEmbedder.Embed: %v", err)
		return zeroVector()
	}
	if len(vec) != domain.EmbeddingDimension {
		log.Printf("ai.GeminiEmbedder.Embed: unexpected vector dimension %d", len(vec))
		return zeroVector()
	}
	return vec
}

func (e *GeminiEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	reqBody := map[string]interface{}{
		"model": "models/" + e.model,
		"content": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": text},
			},
		},
		"outputDimensionality": domain.EmbeddingDimension,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling embedding API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	return parsed.Embedding.Values, nil
}

func zeroVector() []float32 {
	return make([]float32, domain.EmbeddingDimension)
}
