package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageTextStrategy extracts per-page plain text through the document's
// object structure. Fast path for cleanly generated PDFs.
type pageTextStrategy struct{}

func (s *pageTextStrategy) Name() string { return "pagetext" }

func (s *pageTextStrategy) Extract(data []byte) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables;
	// a panic here is just a failed attempt, not a pipeline fault.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pagetext: parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pagetext: read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if pageText != "" {
			sb.WriteString(pageText)
			sb.WriteByte('\n')
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
