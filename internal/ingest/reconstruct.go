package ingest

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"candix/internal/domain"
)

// Surrogate-escape band used by gateways that force binary bodies through a
// string layer: a byte b >= 0x80 that fails strict decoding is remapped to
// the code point surrogateBase+b so it can be recovered exactly later.
// surrogateOffset is the protocol constant subtracted to invert the mapping.
const (
	surrogateBandLo = 0xDC80
	surrogateBandHi = 0xDCFF
	surrogateOffset = 0xDC00
)

// replacementRune is the lossy sentinel a gateway substitutes for bytes it
// could not represent at all. Dropped on reconstruction by policy: the
// position is unrecoverable and aborting the request would be worse.
const replacementRune = 0xFFFD

// Payload is the tagged union of body shapes a request can arrive in.
// Downstream components only ever see the bytes Reconstruct produces.
type Payload struct {
	Bytes      []byte
	Text       string
	IsText     bool
	PreEncoded bool
}

// Reconstruct recovers the original binary content from a transport payload.
//
// Pre-encoded text is base64-decoded; a decode failure there is a hard error
// because the encoding was explicitly declared. Raw bytes pass through
// unchanged. Plain text takes the single-byte fast path when every rune fits
// in a byte (lossless delivery), and otherwise falls back to rune-by-rune
// recovery, which always yields some result.
func Reconstruct(p Payload) ([]byte, error) {
	if !p.IsText {
		return p.Bytes, nil
	}

	if p.PreEncoded {
		decoded, err := base64.StdEncoding.DecodeString(p.Text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEncoding, err)
		}
		return decoded, nil
	}

	if b, ok := encodeLatin1(p.Text); ok {
		return b, nil
	}
	return reconstructCorrupted(p.Text), nil
}

// encodeLatin1 maps each rune to its byte value. Fails on the first rune
// above 0xFF, which indicates the gateway transcoded the body lossily.
func encodeLatin1(s string) ([]byte, bool) {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			return nil, false
		}
		out = append(out, byte(r))
	}
	return out, true
}

// reconstructCorrupted undoes the gateway's lossy string conversion position
// by position. Never fails: corrupted uploads must not abort the pipeline.
//
// Surrogate code points are invalid UTF-8, so Go's range loop would mangle a
// surrogate-escaped body into replacement runes before we ever saw it. The
// three-byte surrogate encoding (WTF-8 style) is therefore decoded by hand
// ahead of the standard decoder.
func reconstructCorrupted(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if r, ok := decodeSurrogate(s[i:]); ok {
			if r >= surrogateBandLo && r <= surrogateBandHi {
				out = append(out, byte(r-surrogateOffset))
			} else {
				out = append(out, byte(r&0xFF))
			}
			i += 3
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			// Raw byte that is not valid UTF-8 at all; carry it through.
			out = append(out, s[i])
			i++
			continue
		}
		switch {
		case r <= 0xFF:
			out = append(out, byte(r))
		case r == replacementRune:
			// Unrecoverable byte, dropped by policy.
		default:
			out = append(out, byte(r&0xFF))
		}
		i += size
	}
	return out
}

// decodeSurrogate reads a three-byte UTF-8-shaped encoding of a surrogate
// code point (U+D800..U+DFFF), which the standard decoder rejects.
func decodeSurrogate(s string) (rune, bool) {
	if len(s) < 3 {
		return 0, false
	}
	if s[0] != 0xED || s[1] < 0xA0 || s[1] > 0xBF || s[2] < 0x80 || s[2] > 0xBF {
		return 0, false
	}
	r := rune(s[0]&0x0F)<<12 | rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F)
	return r, true
}
