package extract_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candix/internal/domain"
	"candix/internal/extract"
)

// stubStrategy returns a fixed payload and counts invocations.
type stubStrategy struct {
	name  string
	text  string
	err   error
	calls int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(data []byte) (string, error) {
	s.calls++
	return s.text, s.err
}

var pdfBytes = []byte("%PDF-1.4 minimal body for chain tests")

func longText(word string, n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = word
	}
	return strings.Join(words, " ")
}

func TestChain_MissingMagic(t *testing.T) {
	chain := extract.NewChainWith([]extract.Strategy{&stubStrategy{name: "a"}}, &stubStrategy{name: "s"})

	_, err := chain.Extract([]byte("not a pdf at all, just text"))
	assert.ErrorIs(t, err, domain.ErrInvalidPDF)
}

func TestChain_FirstStructuredWins(t *testing.T) {
	first := &stubStrategy{name: "pagetext", text: longText("alpha", 40)}
	second := &stubStrategy{name: "contentstream", text: longText("beta", 40)}
	salvage := &stubStrategy{name: "salvage", text: longText("gamma", 40)}
	chain := extract.NewChainWith([]extract.Strategy{first, second}, salvage)

	res, err := chain.Extract(pdfBytes)

	require.NoError(t, err)
	assert.Equal(t, "pagetext", res.Strategy)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
	assert.Zero(t, salvage.calls)
	assert.Len(t, res.Attempts, 1)
}

func TestChain_ShortStructuredOutputFallsThrough(t *testing.T) {
	// 100 chars or fewer from a structured parser is treated as noise.
	first := &stubStrategy{name: "pagetext", text: "short"}
	second := &stubStrategy{name: "contentstream", text: longText("beta", 40)}
	chain := extract.NewChainWith([]extract.Strategy{first, second}, &stubStrategy{name: "salvage"})

	res, err := chain.Extract(pdfBytes)

	require.NoError(t, err)
	assert.Equal(t, "contentstream", res.Strategy)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChain_StrategyErrorIsNotFatal(t *testing.T) {
	failing := &stubStrategy{name: "pagetext", err: errors.New("parser panic")}
	working := &stubStrategy{name: "contentstream", text: longText("beta", 40)}
	chain := extract.NewChainWith([]extract.Strategy{failing, working}, &stubStrategy{name: "salvage"})

	res, err := chain.Extract(pdfBytes)

	require.NoError(t, err)
	assert.Equal(t, "contentstream", res.Strategy)
	require.Len(t, res.Attempts, 2)
	assert.Error(t, res.Attempts[0].Err)
	assert.NoError(t, res.Attempts[1].Err)
}

func TestChain_SalvageAcceptsLowerThreshold(t *testing.T) {
	// 60 chars: below the structured floor, above the salvage floor.
	text := strings.Repeat("salvaged ", 7)
	structured := &stubStrategy{name: "pagetext", text: text}
	salvage := &stubStrategy{name: "salvage", text: text}
	chain := extract.NewChainWith([]extract.Strategy{structured}, salvage)

	res, err := chain.Extract(pdfBytes)

	require.NoError(t, err)
	assert.Equal(t, "salvage", res.Strategy)
}

func TestChain_CombinedPassMergesPartials(t *testing.T) {
	// Each strategy alone is under its floor; together they clear it. The
	// combined pass reruns everything and dedupes at the word level.
	structured := &stubStrategy{name: "pagetext", text: "alpha beta gamma delta"}
	salvage := &stubStrategy{name: "salvage", text: "gamma delta epsilon zeta"}
	chain := extract.NewChainWith([]extract.Strategy{structured}, salvage)

	res, err := chain.Extract(pdfBytes)

	require.NoError(t, err)
	assert.Equal(t, "combined", res.Strategy)
	assert.Equal(t, "alpha beta gamma delta epsilon zeta", res.Text)
	assert.Equal(t, 2, structured.calls)
	assert.Equal(t, 2, salvage.calls)
}

func TestChain_AllStrategiesExhausted(t *testing.T) {
	// Total failure yields an empty result, not an error.
	chain := extract.NewChainWith(
		[]extract.Strategy{&stubStrategy{name: "pagetext", err: errors.New("broken")}},
		&stubStrategy{name: "salvage", text: "tiny"},
	)

	res, err := chain.Extract(pdfBytes)

	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Empty(t, res.Strategy)
	assert.NotEmpty(t, res.Attempts)
}

func TestChain_AttemptsRecordEveryRun(t *testing.T) {
	structured := &stubStrategy{name: "pagetext", text: "short"}
	salvage := &stubStrategy{name: "salvage", text: "also short"}
	chain := extract.NewChainWith([]extract.Strategy{structured}, salvage)

	res, err := chain.Extract(pdfBytes)

	require.NoError(t, err)
	// One pass each in sequence, one pass each in the combined rerun.
	assert.Len(t, res.Attempts, 4)
}
