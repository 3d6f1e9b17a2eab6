package ingest_test

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"candix/internal/domain"
	"candix/internal/ingest"
)

// surrogateEscaped renders b the way a lossy gateway does: bytes >= 0x80
// become three-byte encodings of U+DC00+b.
func surrogateEscaped(b []byte) string {
	var sb bytes.Buffer
	for _, c := range b {
		if c < 0x80 {
			sb.WriteByte(c)
			continue
		}
		r := 0xDC00 + rune(c)
		sb.WriteByte(0xE0 | byte(r>>12))
		sb.WriteByte(0x80 | byte(r>>6)&0x3F)
		sb.WriteByte(0x80 | byte(r)&0x3F)
	}
	return sb.String()
}

func TestReconstruct_RawBytesPassThrough(t *testing.T) {
	data := []byte("%PDF-1.4\x00\x01\xffbinary")
	out, err := ingest.Reconstruct(ingest.Payload{Bytes: data})

	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestReconstruct_Base64(t *testing.T) {
	data := []byte("%PDF-1.4 sample content with \x80\xfe bytes")
	encoded := base64.StdEncoding.EncodeToString(data)

	out, err := ingest.Reconstruct(ingest.Payload{Text: encoded, IsText: true, PreEncoded: true})

	require.NoError(t, err)
	assert.Equal(t, data, out)
}

func TestReconstruct_Base64Invalid(t *testing.T) {
	_, err := ingest.Reconstruct(ingest.Payload{Text: "not!!base64%%", IsText: true, PreEncoded: true})

	assert.ErrorIs(t, err, domain.ErrInvalidEncoding)
}

func TestReconstruct_SingleByteRoundTrip(t *testing.T) {
	// Every byte value 0x00..0xFF as a single-byte-rune string survives the
	// fast path exactly.
	original := make([]byte, 256)
	for i := range original {
		original[i] = byte(i)
	}
	var text bytes.Buffer
	for _, b := range original {
		text.WriteRune(rune(b))
	}

	out, err := ingest.Reconstruct(ingest.Payload{Text: text.String(), IsText: true})

	require.NoError(t, err)
	assert.Equal(t, original, out)
}

func TestReconstruct_SurrogateBand(t *testing.T) {
	original := []byte("%PDF-1.4\n\x80\x9f\xd0\xff stream data")
	text := surrogateEscaped(original)

	out, err := ingest.Reconstruct(ingest.Payload{Text: text, IsText: true})

	require.NoError(t, err)
	assert.Equal(t, original, out)
}

func TestReconstruct_ReplacementRuneDropped(t *testing.T) {
	// Three high bytes replaced by the lossy sentinel: output is exactly
	// three bytes shorter than the pristine original.
	original := []byte("abc\x80def\x81ghi\x82jkl")
	text := "abc�def�ghi�jkl"

	out, err := ingest.Reconstruct(ingest.Payload{Text: text, IsText: true})

	require.NoError(t, err)
	assert.Len(t, out, len(original)-3)
	assert.Equal(t, []byte("abcdefghijkl"), out)
}

func TestReconstruct_MixedCorruption(t *testing.T) {
	// Surrogate-escaped bytes recover exactly while sentinel positions drop.
	text := "head" + surrogateEscaped([]byte{0xAB, 0xCD}) + "�" + "tail"

	out, err := ingest.Reconstruct(ingest.Payload{Text: text, IsText: true})

	require.NoError(t, err)
	assert.Equal(t, []byte("head\xab\xcdtail"), out)
}

func TestReconstruct_NeverFailsOnCorruptedText(t *testing.T) {
	inputs := []string{
		"",
		"���",
		surrogateEscaped([]byte{0xFF, 0xFE, 0xFD}),
		"plain ascii only",
		"\xed\xa0\x80",      // surrogate outside the escape band
		"\xc3",              // truncated multi-byte sequence
		"café résumé",
	}
	for _, in := range inputs {
		_, err := ingest.Reconstruct(ingest.Payload{Text: in, IsText: true})
		assert.NoError(t, err, "input %q", in)
	}
}
