package lint

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/stylemark/model"
)

// TrailingWhitespaceCheck flags prose lines ending in spaces or tabs.
// Two trailing spaces are a Markdown hard break, but style guides use
// blank lines instead and the invisible variant is usually an accident.
type TrailingWhitespaceCheck struct{}

// NewTrailingWhitespaceCheck creates the trailing-whitespace check.
func NewTrailingWhitespaceCheck() *TrailingWhitespaceCheck {
	return &TrailingWhitespaceCheck{}
}

// ID returns "trailing-whitespace".
func (c *TrailingWhitespaceCheck) ID() string { return "trailing-whitespace" }

// Description returns a one-line description.
func (c *TrailingWhitespaceCheck) Description() string {
	return "prose lines do not end in whitespace"
}

// Run reports an Info per offending prose line.
func (c *TrailingWhitespaceCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	forProseLines(doc, func(n int, line string) {
		if line != strings.TrimRight(line, " \t") {
			out = append(out, Finding{
				Severity: Info,
				Line:     n,
				Message:  "trailing whitespace",
			})
		}
	})
	return out
}

// HardTabsCheck flags prose lines containing tab characters, which
// render at unpredictable widths.
type HardTabsCheck struct{}

// NewHardTabsCheck creates the hard-tabs check.
func NewHardTabsCheck() *HardTabsCheck {
	return &HardTabsCheck{}
}

// ID returns "hard-tabs".
func (c *HardTabsCheck) ID() string { return "hard-tabs" }

// Description returns a one-line description.
func (c *HardTabsCheck) Description() string {
	return "prose lines do not contain hard tabs"
}

// Run reports an Info per offending prose line.
func (c *HardTabsCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	forProseLines(doc, func(n int, line string) {
		if strings.ContainsRune(line, '\t') {
			out = append(out, Finding{
				Severity: Info,
				Line:     n,
				Message:  "line contains hard tabs",
			})
		}
	})
	return out
}

// LongLinesCheck flags prose lines over a configured length. Disabled
// unless Config.LineLength is set.
type LongLinesCheck struct {
	limit int
}

// NewLongLinesCheck creates the long-lines check.
func NewLongLinesCheck(config Config) *LongLinesCheck {
	return &LongLinesCheck{limit: config.LineLength}
}

// ID returns "long-lines".
func (c *LongLinesCheck) ID() string { return "long-lines" }

// Description returns a one-line description.
func (c *LongLinesCheck) Description() string {
	return "prose lines stay under the configured length"
}

var linkOnlyLineRe = regexp.MustCompile(`^(?:[-*+]\s+|\d+[.)]\s+)?!?\[[^\]]*\](?:\([^)]*\)|\[[^\]]*\])?\s*$|^\[[^\]]+\]:\s*\S+`)

// Run reports an Info per prose line longer than the limit, measured in
// runes. Table rows and lines that are nothing but a link are exempt.
func (c *LongLinesCheck) Run(doc *model.Document) []Finding {
	if c.limit <= 0 {
		return nil
	}
	tables := tableMask(doc)
	var out []Finding
	forProseLines(doc, func(n int, line string) {
		if tables[n] {
			return
		}
		width := utf8.RuneCountInString(line)
		if width <= c.limit {
			return
		}
		if linkOnlyLineRe.MatchString(strings.TrimSpace(line)) {
			return
		}
		out = append(out, Finding{
			Severity: Info,
			Line:     n,
			Message:  fmt.Sprintf("line is %d characters (limit %d)", width, c.limit),
		})
	})
	return out
}

// forProseLines walks the source lines that are not frontmatter and not
// inside a code block, calling fn with the 1-indexed line number.
func forProseLines(doc *model.Document, fn func(n int, line string)) {
	code := codeMask(doc)
	start := 1
	if len(doc.Blocks) > 0 {
		start = doc.Blocks[0].StartLine // skips frontmatter
	}
	lines := doc.SourceLines()
	for i := start; i <= len(lines); i++ {
		if code[i] {
			continue
		}
		fn(i, lines[i-1])
	}
}

// codeMask returns the source lines covered by code blocks, fences
// included.
func codeMask(doc *model.Document) map[int]bool {
	mask := make(map[int]bool)
	for _, cb := range doc.CodeBlocks {
		for i := cb.Line; i <= cb.EndLine; i++ {
			mask[i] = true
		}
	}
	return mask
}

// tableMask returns the source lines covered by tables.
func tableMask(doc *model.Document) map[int]bool {
	mask := make(map[int]bool)
	for _, t := range doc.Tables {
		for i := t.Line; i <= t.Line+t.RowCount(); i++ {
			mask[i] = true
		}
	}
	return mask
}
