package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// salvageStrategy recovers signal from PDFs whose text survives only in the
// raw byte stream: it decodes the file under several single-byte candidate
// encodings, mines stream objects and literal-text operators for wordish
// runs, and merges the results. This is the path that works for
// resume-builder documents structured parsers read as empty.
type salvageStrategy struct{}

func (s *salvageStrategy) Name() string { return "salvage" }

// candidateEncodings are tried in order; each contributes whatever it can.
var candidateEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"latin-1", charmap.ISO8859_1},
	{"windows-1252", charmap.Windows1252},
	{"utf-8", unicode.UTF8},
}

var (
	streamRe  = regexp.MustCompile(`(?is)stream\s*(.*?)\s*endstream`)
	parenRe   = regexp.MustCompile(`\(([^()]*)\)`)
	bracketRe = regexp.MustCompile(`\[([^\[\]]*)\]`)
	nonWordRe = regexp.MustCompile(`[^\w\s@.-]`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

func (s *salvageStrategy) Extract(data []byte) (string, error) {
	var pieces []string

	for _, cand := range candidateEncodings {
		decoder := cand.enc.NewDecoder()
		decoded, err := decoder.String(string(data))
		if err != nil {
			continue
		}

		if streamText := salvageStreams(decoded); streamText != "" {
			pieces = append(pieces, streamText)
		}
		if literalText := salvageLiterals(decoded); literalText != "" {
			pieces = append(pieces, literalText)
		}
	}

	if len(pieces) == 0 {
		return "", nil
	}
	return cleanSalvaged(dedupeWords(strings.Join(pieces, " "))), nil
}

// salvageStreams mines stream...endstream blocks for meaningful word runs.
func salvageStreams(decoded string) string {
	var kept []string
	for _, m := range streamRe.FindAllStringSubmatch(decoded, -1) {
		cleaned := filterWordish(m[1])
		if len(cleaned) > 10 {
			kept = append(kept, cleaned)
		}
	}
	return strings.Join(kept, " ")
}

// salvageLiterals mines the format's literal-text operator syntax:
// parenthesised strings and positioning arrays.
func salvageLiterals(decoded string) string {
	var kept []string
	for _, re := range []*regexp.Regexp{parenRe, bracketRe} {
		for _, m := range re.FindAllStringSubmatch(decoded, -1) {
			cleaned := spaceRe.ReplaceAllString(nonWordRe.ReplaceAllString(m[1], " "), " ")
			cleaned = strings.TrimSpace(cleaned)
			if len(cleaned) > 2 && !isAllDigits(cleaned) {
				kept = append(kept, cleaned)
			}
		}
	}
	return strings.Join(kept, " ")
}

// filterWordish keeps tokens likely to be human text: multi-char tokens with
// letters, plus emails and dotted names.
func filterWordish(s string) string {
	cleaned := nonWordRe.ReplaceAllString(s, " ")
	var kept []string
	for _, w := range strings.Fields(cleaned) {
		hasAlnum := strings.IndexFunc(w, func(r rune) bool {
			return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		}) >= 0
		if len(w) > 1 && hasAlnum && !isAllDigits(w) {
			kept = append(kept, w)
			continue
		}
		if strings.ContainsAny(w, "@.") {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// cleanSalvaged drops single-character noise tokens and collapses space.
func cleanSalvaged(text string) string {
	var kept []string
	for _, w := range strings.Fields(text) {
		if len(w) > 1 || isAlpha(w) {
			kept = append(kept, w)
		}
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
			return false
		}
	}
	return s != ""
}
