package footnotes

import (
	"strings"
)

// Definition is one footnote supplied by a [^id]: content line or by the
// backend's footnote frames. ID holds the display number extracted from the
// raw marker id, not the raw id itself.
type Definition struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// superscripts maps decimal digits to their Unicode superscript forms.
var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
}

// Superscript converts a run of decimal digits to Unicode superscript
// characters, digit by digit. Non-digit runes pass through unchanged.
func Superscript(digits string) string {
	var b strings.Builder
	for _, r := range digits {
		if sup, ok := superscripts[r]; ok {
			b.WriteRune(sup)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DisplayNumber extracts the display number from a raw footnote id: the first
// maximal run of digits embedded in the id. An id with no digits displays as
// "1".
func DisplayNumber(rawID string) string {
	start := -1
	for i, r := range rawID {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			return rawID[start:i]
		}
	}
	if start >= 0 {
		return rawID[start:]
	}
	return "1"
}

// Renumber runs the full transform: definitions are extracted and stripped
// from the text, then inline references are rewritten as superscript markdown
// links. The transform is idempotent; running it over already-rewritten text
// leaves the text unchanged.
func Renumber(text string) (string, []Definition) {
	body, defs := ExtractDefinitions(text)
	return RewriteReferences(body), defs
}

// ExtractDefinitions removes footnote definition lines ("[^id]: content") from
// the text and returns the remaining body plus the definitions in order of
// appearance. Duplicate ids are kept; the list is append-only.
func ExtractDefinitions(text string) (string, []Definition) {
	var defs []Definition

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if rawID, content, ok := parseDefinitionLine(line); ok {
			defs = append(defs, Definition{
				ID:      DisplayNumber(rawID),
				Content: strings.TrimSpace(content),
			})
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), defs
}

// parseDefinitionLine matches "[^id]: content" at the start of a line. The id
// charset is letters, digits and dashes, matching what the backend emits.
func parseDefinitionLine(line string) (rawID, content string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "[^") {
		return "", "", false
	}
	rest := trimmed[2:]
	end := idRunLength(rest)
	if end == 0 || end >= len(rest) {
		return "", "", false
	}
	if !strings.HasPrefix(rest[end:], "]:") {
		return "", "", false
	}
	return rest[:end], rest[end+2:], true
}

// idRunLength returns the length of the leading footnote-id run in s.
func idRunLength(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return i
		}
	}
	return len(s)
}

// RewriteReferences replaces inline footnote markers with markdown links whose
// visible label is the superscript display number and whose target is a local
// anchor. Two marker forms are recognized: the raw "[^id]" reference and the
// HTML superscript anchor the backend emits on the non-streaming path.
// Already-rewritten links contain neither form, so re-application is a no-op.
func RewriteReferences(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); {
		switch {
		case strings.HasPrefix(text[i:], "[^"):
			if n, consumed := parseInlineReference(text[i:]); consumed > 0 {
				writeLink(&b, n)
				i += consumed
				continue
			}
		case strings.HasPrefix(text[i:], "<sup>"):
			if n, consumed := parseSupAnchor(text[i:]); consumed > 0 {
				writeLink(&b, n)
				i += consumed
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func writeLink(b *strings.Builder, number string) {
	b.WriteByte('[')
	b.WriteString(Superscript(number))
	b.WriteString("](#footnote-")
	b.WriteString(number)
	b.WriteByte(')')
}

// parseInlineReference matches "[^id]" not followed by ':' at the start of s,
// returning the display number and the number of bytes consumed. A trailing
// ':' means the marker is a definition, which this pass leaves alone.
func parseInlineReference(s string) (number string, consumed int) {
	rest := s[2:]
	end := idRunLength(rest)
	if end == 0 || end >= len(rest) || rest[end] != ']' {
		return "", 0
	}
	after := 2 + end + 1
	if after < len(s) && s[after] == ':' {
		return "", 0
	}
	return DisplayNumber(rest[:end]), after
}

// parseSupAnchor matches the backend's HTML form
// <sup><a href="#footnote-N">N</a></sup> at the start of s.
func parseSupAnchor(s string) (number string, consumed int) {
	const open = `<sup><a href="#footnote-`
	if !strings.HasPrefix(s, open) {
		return "", 0
	}
	rest := s[len(open):]
	end := digitRunLength(rest)
	if end == 0 {
		return "", 0
	}
	number = rest[:end]
	tail := `">` + number + `</a></sup>`
	if !strings.HasPrefix(rest[end:], tail) {
		return "", 0
	}
	return number, len(open) + end + len(tail)
}

func digitRunLength(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return i
		}
	}
	return len(s)
}
