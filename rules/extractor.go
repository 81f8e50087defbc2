package rules

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tsawler/stylemark/core"
	"github.com/tsawler/stylemark/model"
)

// ExtractorConfig holds configuration options for the extractor.
type ExtractorConfig struct {
	// BadMarkers are the comment words that label a discouraged
	// example.
	// Default: ["bad"]
	BadMarkers []string

	// GoodMarkers are the comment words that label a preferred
	// example.
	// Default: ["good", "okish"]
	GoodMarkers []string

	// CommentPrefixes are the comment leaders a marker word is
	// recognized behind.
	// Default: ["#", "//", "--", ";"]
	CommentPrefixes []string

	// SkipAnchors skips sections whose anchor contains any of these
	// substrings. The table of contents is a list of links, not rules.
	// Default: ["contents"]
	SkipAnchors []string
}

// DefaultExtractorConfig returns sensible default configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		BadMarkers:      []string{"bad"},
		GoodMarkers:     []string{"good", "okish"},
		CommentPrefixes: []string{"#", "//", "--", ";"},
		SkipAnchors:     []string{"contents"},
	}
}

// Extractor builds rule inventories from analyzed documents.
type Extractor struct {
	config ExtractorConfig
	bad    []string
	good   []string
}

// NewExtractor creates an extractor with default configuration.
func NewExtractor() *Extractor {
	return NewExtractorWithConfig(DefaultExtractorConfig())
}

// NewExtractorWithConfig creates an extractor with custom
// configuration.
func NewExtractorWithConfig(config ExtractorConfig) *Extractor {
	return &Extractor{
		config: config,
		bad:    lowerAll(config.BadMarkers),
		good:   lowerAll(config.GoodMarkers),
	}
}

// Extract walks the document's section tree and builds the rule
// inventory. The document must have been analyzed so that its
// Sections are populated.
func (e *Extractor) Extract(doc *model.Document) (*Inventory, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}

	inv := &Inventory{
		Source: doc.Path,
		Title:  doc.Title(),
		Rules:  make([]Rule, 0),
	}

	anchors := explicitAnchors(doc)
	for _, sec := range doc.AllSections() {
		if e.skipSection(sec) {
			continue
		}
		e.extractSection(inv, sec, anchors)
	}

	e.tally(inv)
	return inv, nil
}

// extractSection emits rules for one section. List items open a rule
// immediately; a paragraph opens one only once a code block attaches
// to it. Anchor tags and link-back superscripts between advice and
// code are transparent, other content closes the open rule.
func (e *Extractor) extractSection(inv *Inventory, sec *model.Section, anchors map[int]string) {
	path := sec.Path()
	n := 0    // rules emitted in this section
	cur := -1 // index of the open rule in inv.Rules
	var cand *Rule

	emit := func(r Rule) {
		n++
		if r.Anchor == "" {
			r.Anchor = sec.Anchor
		}
		if r.ID == "" {
			r.ID = positionalID(sec.Anchor, n)
		}
		inv.Rules = append(inv.Rules, r)
		cur = len(inv.Rules) - 1
	}

	for _, b := range sec.Blocks {
		switch b.Type {
		case core.BlockListItem:
			advice, embedded := itemParts(b)
			r := Rule{
				Section: path,
				Anchor:  anchorWithin(anchors, b.StartLine, b.EndLine),
				Advice:  cleanAdvice(advice),
				Line:    b.StartLine,
			}
			if r.Anchor != "" {
				r.ID = r.Anchor
			}
			cand = nil
			emit(r)
			for _, cb := range embedded {
				inv.Rules[cur].Examples = append(inv.Rules[cur].Examples, e.codeExamples(cb)...)
			}

		case core.BlockParagraph:
			cur = -1
			cand = &Rule{
				Section: path,
				Anchor:  anchorWithin(anchors, b.StartLine, b.EndLine),
				Advice:  cleanAdvice(trimmedLines(b.Lines)),
				Line:    b.StartLine,
			}
			if cand.Anchor != "" {
				cand.ID = cand.Anchor
			}

		case core.BlockFencedCode, core.BlockIndentedCode:
			if cur < 0 {
				r := Rule{Section: path, Line: b.StartLine}
				if cand != nil {
					r = *cand
				}
				cand = nil
				emit(r)
			}
			inv.Rules[cur].Examples = append(inv.Rules[cur].Examples, e.codeExamples(b)...)

		case core.BlockHTML:
			// Transparent. Guides put <a name="..."> tags and
			// <sup>[[link]]</sup> trailers between a rule and its
			// examples.

		default:
			cur = -1
			cand = nil
		}
	}
}

// codeExamples splits one code block into labeled examples.
func (e *Extractor) codeExamples(b *core.Block) []Example {
	first := b.StartLine
	if b.Type == core.BlockFencedCode {
		first = b.StartLine + 1 // opening fence line
	}
	return e.splitCode(b.Language(), b.Code, first)
}

// splitCode cuts code at marker comment lines. The marker line itself
// becomes the label of the segment that follows it; code before the
// first marker stays unlabeled. first is the source line of code[0].
func (e *Extractor) splitCode(lang string, code []string, first int) []Example {
	var out []Example
	start := 0
	label := ""

	flush := func(end int) {
		lo, hi := start, end
		for lo < hi && strings.TrimSpace(code[lo]) == "" {
			lo++
		}
		for hi > lo && strings.TrimSpace(code[hi-1]) == "" {
			hi--
		}
		if lo == hi {
			return
		}
		out = append(out, Example{
			Label:    label,
			Language: lang,
			Code:     strings.Join(code[lo:hi], "\n"),
			Line:     first + lo,
		})
	}

	for i, line := range code {
		if word, ok := e.marker(line); ok {
			flush(i)
			label = word
			start = i + 1
		}
	}
	flush(len(code))
	return out
}

// marker reports whether a code line is a marker comment and returns
// the marker word. A marker is a comment whose first word, stripped of
// trailing punctuation, matches a configured marker word.
func (e *Extractor) marker(line string) (string, bool) {
	s := strings.TrimSpace(line)
	for _, p := range e.config.CommentPrefixes {
		if !strings.HasPrefix(s, p) {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(s, p))
		if len(fields) == 0 {
			return "", false
		}
		word := strings.ToLower(strings.Trim(fields[0], ":.,!"))
		for _, m := range e.bad {
			if word == m {
				return word, true
			}
		}
		for _, m := range e.good {
			if word == m {
				return word, true
			}
		}
		return "", false
	}
	return "", false
}

// skipSection reports whether a section is excluded from extraction.
func (e *Extractor) skipSection(sec *model.Section) bool {
	for _, sub := range e.config.SkipAnchors {
		if sub != "" && strings.Contains(sec.Anchor, sub) {
			return true
		}
	}
	return false
}

// tally fills the inventory counts.
func (e *Extractor) tally(inv *Inventory) {
	c := Counts{Rules: len(inv.Rules)}
	for _, r := range inv.Rules {
		c.Examples += len(r.Examples)
		for _, ex := range r.Examples {
			switch {
			case ex.Label == "":
				c.Untagged++
			case containsWord(e.bad, ex.Label):
				c.Bad++
			default:
				c.Good++
			}
		}
	}
	inv.Counts = c
}

// itemParts separates a list item's raw lines into its advice text and
// any code fences opened inside the item body.
func itemParts(b *core.Block) ([]string, []*core.Block) {
	var advice []string
	var blocks []*core.Block
	var cb *core.Block
	var marker byte
	markerLen := 0
	width := 0

	for i, line := range b.Lines {
		if cb != nil {
			if core.FenceCloses(cutIndent(line, width), marker, markerLen) {
				cb.Closed = true
				cb.EndLine = b.StartLine + i
				blocks = append(blocks, cb)
				cb = nil
				continue
			}
			cb.Code = append(cb.Code, cutIndent(line, width))
			continue
		}

		trimmed, indent := stripLeading(line)
		if i > 0 {
			if _, m, ml, info, ok := core.FenceOpen(trimmed); ok {
				cb = &core.Block{
					Type:      core.BlockFencedCode,
					StartLine: b.StartLine + i,
					Info:      info,
				}
				marker = m
				markerLen = ml
				width = indent
				continue
			}
		}

		if i == 0 {
			advice = append(advice, b.Text)
		} else if trimmed != "" {
			advice = append(advice, trimmed)
		}
	}

	if cb != nil {
		cb.EndLine = b.EndLine
		blocks = append(blocks, cb)
	}
	return advice, blocks
}

var (
	anchorTagRe = regexp.MustCompile(`<a\s+(?:name|id)="[^"]*"\s*>\s*</a>`)
	supLinkRe   = regexp.MustCompile(`<sup>.*?</sup>`)
)

// cleanAdvice joins raw advice lines into one string, dropping inline
// anchor tags and link-back superscripts and collapsing whitespace.
func cleanAdvice(lines []string) string {
	s := strings.Join(lines, " ")
	s = anchorTagRe.ReplaceAllString(s, "")
	s = supLinkRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// explicitAnchors maps source lines to the explicit anchor defined on
// them.
func explicitAnchors(doc *model.Document) map[int]string {
	m := make(map[int]string)
	for _, a := range doc.Anchors {
		if !a.Explicit {
			continue
		}
		if _, seen := m[a.Line]; !seen {
			m[a.Line] = a.ID
		}
	}
	return m
}

// anchorWithin returns the first explicit anchor defined on the given
// line range, or "".
func anchorWithin(anchors map[int]string, from, to int) string {
	for ln := from; ln <= to; ln++ {
		if id, ok := anchors[ln]; ok {
			return id
		}
	}
	return ""
}

// positionalID builds a fallback rule ID from the section anchor and
// the rule's 1-based position within the section.
func positionalID(anchor string, n int) string {
	if anchor == "" {
		anchor = "section"
	}
	return anchor + "-" + strconv.Itoa(n)
}

// trimmedLines returns the lines with surrounding whitespace removed.
func trimmedLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.TrimSpace(line))
	}
	return out
}

// stripLeading drops leading spaces and tabs and reports how many
// bytes were removed.
func stripLeading(line string) (string, int) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:], i
}

// cutIndent removes up to width leading space or tab bytes.
func cutIndent(line string, width int) string {
	i := 0
	for i < len(line) && i < width && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

func containsWord(words []string, w string) bool {
	for _, m := range words {
		if m == w {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
