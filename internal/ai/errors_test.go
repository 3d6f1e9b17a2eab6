package ai_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"candix/internal/ai"
)

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 0, ai.ParseRetryAfterHeader(""))
	assert.Equal(t, 0, ai.ParseRetryAfterHeader("soon"))
	assert.Equal(t, 0, ai.ParseRetryAfterHeader("-5"))
	assert.Equal(t, 30, ai.ParseRetryAfterHeader("30"))
}

func TestParseRetryAfterHeader_HTTPDate(t *testing.T) {
	future := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	secs := ai.ParseRetryAfterHeader(future)
	assert.InDelta(t, 90, secs, 2)

	past := time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat)
	assert.Equal(t, 0, ai.ParseRetryAfterHeader(past))
}

func TestNewRateLimitError_Defaults(t *testing.T) {
	base := errors.New("429 too many requests")

	withHint := ai.NewRateLimitError("gemini", base, 15)
	assert.Equal(t, 15*time.Second, withHint.RetryAfter)
	assert.ErrorIs(t, withHint, base)

	noHint := ai.NewRateLimitError("claude", base, 0)
	assert.Equal(t, 60*time.Second, noHint.RetryAfter)
	assert.Contains(t, noHint.Error(), "claude")
}
