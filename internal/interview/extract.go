package interview

import (
	"encoding/json"
	"strings"
)

// ClosingMessage replaces replies that contain nothing but the record,
// so the caller always receives some prose.
const ClosingMessage = "Gracias por completar la entrevista 🙌. Nos pondremos en contacto contigo muy pronto."

// ExtractStatus reports how extraction ended. A ParseError is local to
// the turn: the interview simply continues and a later reply gets
// another chance to carry a well-formed record.
type ExtractStatus int

const (
	ExtractNotFound ExtractStatus = iota
	ExtractParseError
	ExtractFound
)

const fenceMarker = "```"

// ExtractRecord locates and parses the decision record embedded in a raw
// collaborator reply. A fenced ```json block wins; otherwise the last
// brace-delimited span is taken, because models tend to narrate first and
// emit the record at the end.
func ExtractRecord(raw string) (Record, ExtractStatus) {
	candidate, ok := fencedBody(raw)
	if !ok {
		spans := braceSpans(raw)
		if len(spans) == 0 {
			return Record{}, ExtractNotFound
		}
		last := spans[len(spans)-1]
		candidate = raw[last[0]:last[1]]
	}

	var rec Record
	if err := json.Unmarshal([]byte(candidate), &rec); err != nil {
		return Record{}, ExtractParseError
	}
	return rec, ExtractFound
}

// VisibleText derives the prose shown to the candidate: every fenced
// block and every brace-delimited span is stripped, whitespace trimmed.
func VisibleText(raw string) string {
	out := stripFences(raw)
	spans := braceSpans(out)
	for i := len(spans) - 1; i >= 0; i-- {
		out = out[:spans[i][0]] + out[spans[i][1]:]
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return ClosingMessage
	}
	return out
}

// fencedBody returns the trimmed body of the first fenced block whose
// content is a JSON object. The fence may be tagged "json".
func fencedBody(s string) (string, bool) {
	for _, open := range []string{fenceMarker + "json", fenceMarker} {
		idx := strings.Index(s, open)
		if idx < 0 {
			continue
		}
		start := idx + len(open)
		end := strings.Index(s[start:], fenceMarker)
		if end < 0 {
			continue
		}
		body := strings.TrimSpace(s[start : start+end])
		if strings.HasPrefix(body, "{") {
			return body, true
		}
	}
	return "", false
}

// stripFences removes every fenced block, delimiters included. An
// unterminated fence is left alone; the brace strip still applies to it.
func stripFences(s string) string {
	for {
		open := strings.Index(s, fenceMarker)
		if open < 0 {
			return s
		}
		rest := open + len(fenceMarker)
		closing := strings.Index(s[rest:], fenceMarker)
		if closing < 0 {
			// Unpaired fence, usually a truncated reply. Drop the
			// marker and its language tag so they cannot leak into
			// the visible text.
			if strings.HasPrefix(s[rest:], "json") {
				rest += len("json")
			}
			s = s[:open] + s[rest:]
			continue
		}
		s = s[:open] + s[rest+closing+len(fenceMarker):]
	}
}

// braceSpans returns the byte ranges of all top-level {...} spans,
// tracking nesting depth so a record with nested objects counts as one
// span.
func braceSpans(s string) [][2]int {
	var spans [][2]int
	depth := 0
	start := -1
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					spans = append(spans, [2]int{start, i + 1})
				}
			}
		}
	}
	return spans
}
