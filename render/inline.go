package render

import (
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

var esc = template.HTMLEscapeString

var anchorTagRe = regexp.MustCompile(`^<a\s+(?:[^>]*\s)?(?:name|id)\s*=\s*["']([^"']+)["'][^>]*>`)

// spanContext carries what link emission needs: reference definitions
// and an optional destination rewrite, used when output is split across
// files and internal anchors must point at their new homes.
type spanContext struct {
	refs    map[string]string
	rewrite func(string) string
}

func (c *spanContext) destOf(d string) string {
	if c != nil && c.rewrite != nil {
		return c.rewrite(d)
	}
	return d
}

func (c *spanContext) lookup(label string) (string, bool) {
	if c == nil || c.refs == nil {
		return "", false
	}
	dest, ok := c.refs[strings.ToLower(label)]
	return dest, ok
}

// appendInline writes s as HTML, converting code spans, emphasis,
// links, images, autolinks and explicit anchors. Everything else is
// escaped literal text.
func appendInline(b *strings.Builder, s string, ctx *spanContext) {
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteString(esc(s[i+1 : i+2]))
			i += 2

		case c == '`':
			if content, next, ok := matchCodeSpan(s, i); ok {
				b.WriteString("<code>")
				b.WriteString(esc(content))
				b.WriteString("</code>")
				i = next
				continue
			}
			b.WriteByte('`')
			i++

		case c == '!' && i+1 < len(s) && s[i+1] == '[':
			if l, next, ok := matchLink(s, i+1); ok {
				writeImage(b, l, ctx)
				i = next
				continue
			}
			b.WriteByte('!')
			i++

		case c == '[':
			if l, next, ok := matchLink(s, i); ok {
				if dest, found := l.resolve(ctx); found {
					fmt.Fprintf(b, "<a href=\"%s\"", esc(ctx.destOf(dest)))
					if l.title != "" {
						fmt.Fprintf(b, " title=\"%s\"", esc(l.title))
					}
					b.WriteByte('>')
					appendInline(b, l.text, ctx)
					b.WriteString("</a>")
					i = next
					continue
				}
			}
			b.WriteByte('[')
			i++

		case c == '*' || c == '_':
			if c == '_' && i > 0 && isWordByte(s[i-1]) {
				b.WriteByte(c)
				i++
				continue
			}
			if inner, next, strong, ok := matchEmphasis(s, i); ok {
				tag := "em"
				if strong {
					tag = "strong"
				}
				fmt.Fprintf(b, "<%s>", tag)
				appendInline(b, inner, ctx)
				fmt.Fprintf(b, "</%s>", tag)
				i = next
				continue
			}
			b.WriteByte(c)
			i++

		case c == '<':
			if id, next, ok := matchAnchorTag(s, i); ok {
				fmt.Fprintf(b, "<a id=\"%s\"></a>", esc(id))
				i = next
				continue
			}
			if dest, text, next, ok := matchAutolink(s, i); ok {
				fmt.Fprintf(b, "<a href=\"%s\">%s</a>", esc(dest), esc(text))
				i = next
				continue
			}
			b.WriteString("&lt;")
			i++

		default:
			j := i + 1
			if next := strings.IndexAny(s[j:], "\\`![*_<"); next >= 0 {
				j += next
			} else {
				j = len(s)
			}
			b.WriteString(esc(s[i:j]))
			i = j
		}
	}
}

// plainText reduces inline markup to its text content: link and image
// text survive, delimiters and destinations do not. Used for nav labels
// and image alt text, where nested markup is not allowed.
func plainText(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			b.WriteByte(s[i+1])
			i += 2
		case c == '`':
			if content, next, ok := matchCodeSpan(s, i); ok {
				b.WriteString(content)
				i = next
				continue
			}
			b.WriteByte(c)
			i++
		case c == '!' && i+1 < len(s) && s[i+1] == '[':
			if l, next, ok := matchLink(s, i+1); ok {
				b.WriteString(plainText(l.text))
				i = next
				continue
			}
			b.WriteByte(c)
			i++
		case c == '[':
			if l, next, ok := matchLink(s, i); ok {
				b.WriteString(plainText(l.text))
				i = next
				continue
			}
			b.WriteByte(c)
			i++
		case c == '*' || c == '_':
			if c == '_' && i > 0 && isWordByte(s[i-1]) {
				b.WriteByte(c)
				i++
				continue
			}
			if inner, next, _, ok := matchEmphasis(s, i); ok {
				b.WriteString(plainText(inner))
				i = next
				continue
			}
			b.WriteByte(c)
			i++
		case c == '<':
			if _, next, ok := matchAnchorTag(s, i); ok {
				i = next
				continue
			}
			if _, text, next, ok := matchAutolink(s, i); ok {
				b.WriteString(text)
				i = next
				continue
			}
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return strings.TrimSpace(b.String())
}

// inlineLink is a matched link, image or reference link.
type inlineLink struct {
	text  string
	dest  string
	title string
	label string // reference form only
}

// resolve returns the destination, consulting the context's reference
// definitions for the reference form. Lookup is by lowercased label,
// first definition wins.
func (l inlineLink) resolve(ctx *spanContext) (string, bool) {
	if l.label == "" {
		return l.dest, true
	}
	return ctx.lookup(l.label)
}

func writeImage(b *strings.Builder, l inlineLink, ctx *spanContext) {
	dest, ok := l.resolve(ctx)
	if !ok {
		b.WriteString(esc("![" + l.text + "][" + l.label + "]"))
		return
	}
	fmt.Fprintf(b, "<img src=\"%s\" alt=\"%s\"", esc(dest), esc(plainText(l.text)))
	if l.title != "" {
		fmt.Fprintf(b, " title=\"%s\"", esc(l.title))
	}
	b.WriteByte('>')
}

// matchCodeSpan recognizes a backtick span starting at i and returns
// its trimmed content and the index just past the closing run.
func matchCodeSpan(s string, i int) (string, int, bool) {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	j := i + n
	for j < len(s) {
		if s[j] != '`' {
			j++
			continue
		}
		run := 0
		first := j
		for j < len(s) && s[j] == '`' {
			run++
			j++
		}
		if run == n {
			return strings.TrimSpace(s[i+n : first]), j, true
		}
	}
	return "", 0, false
}

// matchEmphasis recognizes *text*, **text**, _text_ or __text__
// starting at i. The delimiter must hug its content on both sides.
func matchEmphasis(s string, i int) (inner string, next int, strong, ok bool) {
	c := s[i]
	n := 1
	if i+1 < len(s) && s[i+1] == c {
		n = 2
	}
	rest := s[i+n:]
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == c {
		return "", 0, false, false
	}
	close := strings.Index(rest, strings.Repeat(string(c), n))
	if close <= 0 || rest[close-1] == ' ' || rest[close-1] == '\t' {
		return "", 0, false, false
	}
	return rest[:close], i + n + close + n, n == 2, true
}

// matchLink recognizes [text](dest "title"), [text][label] and
// [text][] starting at the bracket at i.
func matchLink(s string, i int) (inlineLink, int, bool) {
	textEnd := matchBracket(s, i)
	if textEnd < 0 {
		return inlineLink{}, 0, false
	}
	text := s[i+1 : textEnd]
	after := textEnd + 1

	if after < len(s) && s[after] == '(' {
		destEnd := matchParen(s, after)
		if destEnd < 0 {
			return inlineLink{}, 0, false
		}
		dest, title := splitDestTitle(s[after+1 : destEnd])
		return inlineLink{text: text, dest: dest, title: title}, destEnd + 1, true
	}

	if after < len(s) && s[after] == '[' {
		labelEnd := matchBracket(s, after)
		if labelEnd < 0 {
			return inlineLink{}, 0, false
		}
		label := s[after+1 : labelEnd]
		if label == "" {
			label = text
		}
		return inlineLink{text: text, label: label}, labelEnd + 1, true
	}

	return inlineLink{}, 0, false
}

// matchAnchorTag recognizes <a name="..."> and <a id="..."> at i,
// swallowing an immediately following </a>.
func matchAnchorTag(s string, i int) (string, int, bool) {
	m := anchorTagRe.FindStringSubmatchIndex(s[i:])
	if m == nil {
		return "", 0, false
	}
	id := s[i+m[2] : i+m[3]]
	next := i + m[1]
	if strings.HasPrefix(s[next:], "</a>") {
		next += len("</a>")
	}
	return id, next, true
}

// matchAutolink recognizes <scheme:...> and <user@host> at i.
func matchAutolink(s string, i int) (dest, text string, next int, ok bool) {
	end := strings.IndexByte(s[i:], '>')
	if end < 0 {
		return "", "", 0, false
	}
	inner := s[i+1 : i+end]
	if inner == "" || strings.ContainsAny(inner, " \t<") {
		return "", "", 0, false
	}
	switch {
	case schemeLike(inner):
		dest = inner
	case strings.Contains(inner, "@"):
		dest = "mailto:" + inner
	default:
		return "", "", 0, false
	}
	return dest, inner, i + end + 1, true
}

func schemeLike(s string) bool {
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

// matchBracket returns the index of the ] matching the [ at i, honoring
// nesting and backslash escapes.
func matchBracket(s string, i int) int {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
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
func matchParen(s string, i int) int {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
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

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
