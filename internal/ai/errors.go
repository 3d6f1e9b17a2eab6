package ai

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// defaultRetryAfter is used when a 429 carries no usable Retry-After value.
const defaultRetryAfter = 60 * time.Second

// RateLimitError reports a 429 from a metadata or embedding provider. The
// fallback chain inspects RetryAfter when deciding whether to wait or move
// to the next provider.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError wraps a provider 429. A non-positive retryAfterSecs
// falls back to defaultRetryAfter.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	retry := defaultRetryAfter
	if retryAfterSecs > 0 {
		retry = time.Duration(retryAfterSecs) * time.Second
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: retry,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader reads a Retry-After value in either form RFC 7231
// permits: delay seconds or an HTTP date. Returns 0 for anything unusable,
// including dates already in the past.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	if secs, err := strconv.Atoi(val); err == nil {
		if secs < 0 {
			return 0
		}
		return secs
	}
	at, err := http.ParseTime(val)
	if err != nil {
		return 0
	}
	secs := int(time.Until(at).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}
