package core

import (
	"regexp"
	"strings"
)

// InlineKind represents the type of inline element
type InlineKind int

const (
	InlineLink InlineKind = iota
	InlineImage
	InlineAutolink
	InlineRefLink
	InlineCodeSpan
	InlineHTMLAnchor
)

// String returns a human-readable name for the inline kind.
func (k InlineKind) String() string {
	switch k {
	case InlineLink:
		return "link"
	case InlineImage:
		return "image"
	case InlineAutolink:
		return "autolink"
	case InlineRefLink:
		return "reference link"
	case InlineCodeSpan:
		return "code span"
	case InlineHTMLAnchor:
		return "html anchor"
	default:
		return "unknown"
	}
}

// Inline represents an inline element found in a line of prose.
//
// Line is 1-based; Col is the 1-based byte offset of the element's first
// character. Dest holds the link destination, the image source, or the
// anchor ID; Label holds the reference label of a reference link.
type Inline struct {
	Kind  InlineKind
	Text  string
	Dest  string
	Title string
	Label string
	Line  int
	Col   int
}

var htmlAnchorRe = regexp.MustCompile(`<a\s+(?:[^>]*\s)?(?:name|id)\s*=\s*["']([^"']+)["']`)

// ScanInlines extracts inline elements from a single line. Code spans
// are found first so that bracket syntax inside backticks is ignored.
func ScanInlines(line string, lineNum int) []Inline {
	var found []Inline

	// Code spans mask everything inside them.
	masked := []byte(line)
	i := 0
	for i < len(line) {
		if line[i] != '`' {
			i++
			continue
		}
		open := i
		n := 0
		for i < len(line) && line[i] == '`' {
			n++
			i++
		}
		close := findBacktickRun(line, i, n)
		if close < 0 {
			continue
		}
		text := line[open+n : close]
		found = append(found, Inline{
			Kind: InlineCodeSpan,
			Text: strings.TrimSpace(text),
			Line: lineNum,
			Col:  open + 1,
		})
		for j := open; j < close+n; j++ {
			masked[j] = ' '
		}
		i = close + n
	}
	ml := string(masked)

	// Explicit HTML anchors survive masking since they carry no backticks.
	for _, m := range htmlAnchorRe.FindAllStringSubmatchIndex(ml, -1) {
		found = append(found, Inline{
			Kind: InlineHTMLAnchor,
			Dest: ml[m[2]:m[3]],
			Line: lineNum,
			Col:  m[0] + 1,
		})
	}

	for i := 0; i < len(ml); i++ {
		c := ml[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '<' {
			if inl, next, ok := scanAutolink(ml, i, lineNum); ok {
				found = append(found, inl)
				i = next - 1
			}
			continue
		}
		if c == '!' && i+1 < len(ml) && ml[i+1] == '[' {
			if inl, next, ok := scanBracketed(ml, i+1, lineNum, true); ok {
				inl.Col = i + 1
				found = append(found, inl)
				i = next - 1
			} else {
				i++
			}
			continue
		}
		if c == '[' {
			if inl, next, ok := scanBracketed(ml, i, lineNum, false); ok {
				found = append(found, inl)
				i = next - 1
			}
		}
	}
	return found
}

// findBacktickRun finds the next run of exactly n backticks at or after
// position start and returns the index of its first backtick.
func findBacktickRun(line string, start, n int) int {
	i := start
	for i < len(line) {
		if line[i] != '`' {
			i++
			continue
		}
		run := 0
		first := i
		for i < len(line) && line[i] == '`' {
			run++
			i++
		}
		if run == n {
			return first
		}
	}
	return -1
}

// scanAutolink recognizes <scheme:...> autolinks starting at i.
func scanAutolink(line string, i, lineNum int) (Inline, int, bool) {
	end := strings.IndexByte(line[i:], '>')
	if end < 0 {
		return Inline{}, 0, false
	}
	inner := line[i+1 : i+end]
	if inner == "" || strings.ContainsAny(inner, " \t<") {
		return Inline{}, 0, false
	}
	if !autolinkScheme(inner) && !strings.Contains(inner, "@") {
		return Inline{}, 0, false
	}
	dest := inner
	if !autolinkScheme(inner) {
		dest = "mailto:" + inner
	}
	return Inline{
		Kind: InlineAutolink,
		Text: inner,
		Dest: dest,
		Line: lineNum,
		Col:  i + 1,
	}, i + end + 1, true
}

// autolinkScheme reports whether s begins with an URI scheme.
func autolinkScheme(s string) bool {
	colon := strings.IndexByte(s, ':')
	if colon < 1 {
		return false
	}
	for j, r := range s[:colon] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case j > 0 && (r >= '0' && r <= '9' || r == '+' || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// scanBracketed recognizes [text](dest "title"), [text][label] and
// [text][] starting at the [ at position i. It returns the element and
// the index just past it.
func scanBracketed(line string, i, lineNum int, image bool) (Inline, int, bool) {
	textEnd := matchBracket(line, i)
	if textEnd < 0 {
		return Inline{}, 0, false
	}
	text := line[i+1 : textEnd]
	after := textEnd + 1

	if after < len(line) && line[after] == '(' {
		destEnd := matchParen(line, after)
		if destEnd < 0 {
			return Inline{}, 0, false
		}
		dest, title := splitDestTitle(line[after+1 : destEnd])
		kind := InlineLink
		if image {
			kind = InlineImage
		}
		return Inline{
			Kind:  kind,
			Text:  text,
			Dest:  dest,
			Title: title,
			Line:  lineNum,
			Col:   i + 1,
		}, destEnd + 1, true
	}

	if after < len(line) && line[after] == '[' {
		labelEnd := matchBracket(line, after)
		if labelEnd < 0 {
			return Inline{}, 0, false
		}
		label := line[after+1 : labelEnd]
		if label == "" {
			label = text // collapsed reference: [text][]
		}
		kind := InlineRefLink
		if image {
			kind = InlineImage
		}
		return Inline{
			Kind:  kind,
			Text:  text,
			Label: label,
			Line:  lineNum,
			Col:   i + 1,
		}, labelEnd + 1, true
	}

	return Inline{}, 0, false
}

// matchBracket returns the index of the ] matching the [ at i, honoring
// nesting and backslash escapes.
func matchBracket(line string, i int) int {
	depth := 0
	for j := i; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// matchParen returns the index of the ) matching the ( at i.
func matchParen(line string, i int) int {
	depth := 0
	for j := i; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// splitDestTitle splits the inside of (dest "title") into its parts.
func splitDestTitle(s string) (dest, title string) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "<") {
		if close := strings.IndexByte(s, '>'); close >= 0 {
			return s[1:close], trimTitle(s[close+1:])
		}
	}
	sp := strings.IndexAny(s, " \t")
	if sp < 0 {
		return s, ""
	}
	return s[:sp], trimTitle(s[sp+1:])
}

// trimTitle strips surrounding quotes from a link title.
func trimTitle(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
