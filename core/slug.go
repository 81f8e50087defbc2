package core

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// SlugStyle selects the anchor generation algorithm.
type SlugStyle int

const (
	// SlugGitHub matches github.com's heading anchors.
	SlugGitHub SlugStyle = iota
	// SlugKramdown matches kramdown's auto_ids, used by Jekyll sites.
	SlugKramdown
)

var slugLower = cases.Lower(language.Und)

// Slug converts heading text into an anchor ID without duplicate
// handling. Inline markup is reduced the way renderers do before
// anchoring: code span backticks are dropped and link text replaces
// link syntax.
func Slug(text string, style SlugStyle) string {
	text = strings.TrimSpace(stripInlineMarkup(text))
	text = slugLower.String(norm.NFC.String(text))

	var b strings.Builder
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	slug := b.String()

	if style == SlugKramdown {
		for strings.Contains(slug, "--") {
			slug = strings.ReplaceAll(slug, "--", "-")
		}
		slug = strings.Trim(slug, "-")
		slug = strings.TrimLeft(slug, "0123456789-")
		if slug == "" {
			slug = "section"
		}
	}
	return slug
}

// stripInlineMarkup removes backticks, emphasis markers and link syntax
// from heading text, keeping the visible characters.
func stripInlineMarkup(text string) string {
	text = strings.ReplaceAll(text, "`", "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")

	// [text](dest) and [text][label] reduce to text.
	for {
		i := strings.IndexByte(text, '[')
		if i < 0 {
			break
		}
		end := matchBracket(text, i)
		if end < 0 {
			break
		}
		inner := text[i+1 : end]
		rest := text[end+1:]
		switch {
		case strings.HasPrefix(rest, "("):
			if p := matchParen(rest, 0); p >= 0 {
				rest = rest[p+1:]
			}
		case strings.HasPrefix(rest, "["):
			if p := matchBracket(rest, 0); p >= 0 {
				rest = rest[p+1:]
			}
		}
		text = text[:i] + inner + rest
	}
	return text
}

// Slugger generates anchor IDs with duplicate handling: the first
// occurrence keeps the bare slug, repeats get -1, -2, ... suffixes.
type Slugger struct {
	style SlugStyle
	seen  map[string]int
}

// NewSlugger creates a slugger for the given style.
func NewSlugger(style SlugStyle) *Slugger {
	return &Slugger{style: style, seen: make(map[string]int)}
}

// Slug returns the deduplicated anchor ID for heading text.
func (s *Slugger) Slug(text string) string {
	base := Slug(text, s.style)
	n, dup := s.seen[base]
	s.seen[base] = n + 1
	if !dup {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// Reset forgets all previously generated slugs.
func (s *Slugger) Reset() {
	s.seen = make(map[string]int)
}
