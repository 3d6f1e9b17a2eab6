package ingest

import (
	"bytes"
	"log"
	"strings"
	"unicode/utf8"

	"candix/internal/domain"
)

// fileFieldNames are the form field names accepted for the file part, in
// addition to any part carrying a filename attribute. First validated match
// wins when several parts qualify.
var fileFieldNames = []string{"resume", "file", "pdf_file"}

// headerSeparators, in precedence order. Different senders normalize line
// endings differently, so both CRLF and bare-LF framing are accepted.
var headerSeparators = [][]byte{
	[]byte("\r\n\r\n"),
	[]byte("\n\n"),
	[]byte("\r\r"),
}

// trailerArtifacts are boundary remnants stripped from a part's content tail,
// tried in this precedence order.
var trailerArtifacts = [][]byte{
	[]byte("--\r\n"),
	[]byte("--\n"),
	[]byte("\r\n"),
	[]byte("\n"),
}

// ParsedUpload is the result of decoding a multipart body: exactly one
// validated file payload plus the auxiliary text fields. FileBytes is the
// verbatim content of the accepted part; persistence must use it directly so
// no stream abstraction can reintroduce encoding loss.
type ParsedUpload struct {
	FileBytes []byte
	FileName  string
	Fields    map[string]string
}

// DecodeMultipart splits body on the boundary, validates the file part
// against the PDF magic signature and size floor, and collects the required
// text fields. Parts that fail file validation are skipped, not fatal;
// scanning continues to the next candidate.
func DecodeMultipart(body []byte, boundary string, requiredFields []string) (*ParsedUpload, error) {
	if boundary == "" {
		return nil, domain.ErrMissingBoundary
	}
	if len(body) == 0 {
		return nil, domain.ErrEmptyBody
	}

	delim := []byte("--" + boundary)
	parts := bytes.Split(body, delim)
	log.Printf("ingest.DecodeMultipart: found %d parts in multipart data", len(parts))

	upload := &ParsedUpload{Fields: make(map[string]string)}

	for i, part := range parts {
		if isBoundaryNoise(part) {
			continue
		}

		headerSection, content, ok := splitPart(part)
		if !ok {
			log.Printf("ingest.DecodeMultipart: no header separator found in part %d", i)
			continue
		}
		headers := decodeTolerant(headerSection)

		if upload.FileBytes == nil && isFileCandidate(headers) {
			content = trimTrailer(content)
			if len(content) < domain.MinFileBytes {
				log.Printf("ingest.DecodeMultipart: file content too small in part %d: %d bytes", i, len(content))
				continue
			}
			if !bytes.HasPrefix(content, domain.PDFMagic) {
				log.Printf("ingest.DecodeMultipart: invalid file signature in part %d", i)
				continue
			}
			upload.FileBytes = content
			upload.FileName = filenameAttr(headers)
			log.Printf("ingest.DecodeMultipart: accepted file content from part %d: %d bytes", i, len(content))
			continue
		}

		for _, field := range requiredFields {
			if !strings.Contains(headers, `name="`+field+`"`) {
				continue
			}
			value := strings.TrimSpace(decodeTolerant(trimTrailer(content)))
			value = strings.Trim(value, "\r\n-")
			if value != "" {
				upload.Fields[field] = value
			}
		}
	}

	if upload.FileBytes == nil {
		return nil, domain.ErrMissingFile
	}
	for _, field := range requiredFields {
		if upload.Fields[field] == "" {
			return nil, &domain.MissingFieldError{Field: field}
		}
	}
	return upload, nil
}

// isBoundaryNoise reports whether a split segment is empty or a pure
// boundary terminator remnant.
func isBoundaryNoise(part []byte) bool {
	trimmed := bytes.TrimSpace(part)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("--"))
}

// splitPart separates a part's header lines from its content.
func splitPart(part []byte) (headers, content []byte, ok bool) {
	for _, sep := range headerSeparators {
		if idx := bytes.Index(part, sep); idx != -1 {
			return part[:idx], part[idx+len(sep):], true
		}
	}
	return nil, nil, false
}

// trimTrailer strips trailing boundary artifacts from part content.
func trimTrailer(content []byte) []byte {
	for _, t := range trailerArtifacts {
		if bytes.HasSuffix(content, t) {
			return content[:len(content)-len(t)]
		}
	}
	return content
}

// isFileCandidate inspects decoded part headers for the file role: a known
// file field name or any filename attribute.
func isFileCandidate(headers string) bool {
	if !strings.Contains(headers, "Content-Disposition") {
		return false
	}
	for _, name := range fileFieldNames {
		if strings.Contains(headers, `name="`+name+`"`) {
			return true
		}
	}
	return strings.Contains(headers, "filename=")
}

// filenameAttr pulls the filename attribute out of a Content-Disposition
// header, empty when absent.
func filenameAttr(headers string) string {
	_, after, found := strings.Cut(headers, `filename="`)
	if !found {
		return ""
	}
	name, _, _ := strings.Cut(after, `"`)
	return name
}

// decodeTolerant decodes header or field bytes as UTF-8, replacing invalid
// sequences rather than failing. Header bytes are expected to be ASCII-range
// even when the sibling content is binary.
func decodeTolerant(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size == 1 {
			b = b[1:]
			continue
		}
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}
