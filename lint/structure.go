package lint

import (
	"fmt"
	"strings"

	"github.com/tsawler/stylemark/core"
	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/toc"
)

// TOCAnchorsCheck verifies that every internal link resolves to an
// anchor the document actually exposes. This is the check that catches
// a table of contents drifting away from renamed headings.
type TOCAnchorsCheck struct{}

// NewTOCAnchorsCheck creates the toc-anchors check.
func NewTOCAnchorsCheck() *TOCAnchorsCheck {
	return &TOCAnchorsCheck{}
}

// ID returns "toc-anchors".
func (c *TOCAnchorsCheck) ID() string { return "toc-anchors" }

// Description returns a one-line description.
func (c *TOCAnchorsCheck) Description() string {
	return "internal links resolve to a heading anchor"
}

// Run reports an Error for each internal link whose fragment matches no
// anchor.
func (c *TOCAnchorsCheck) Run(doc *model.Document) []Finding {
	anchors := doc.AnchorSet()
	var out []Finding
	for _, l := range doc.InternalLinks() {
		target := strings.TrimPrefix(l.Dest, "#")
		if target == "" || anchors[target] {
			continue
		}
		msg := fmt.Sprintf("link %q points to missing anchor %q", l.Text, l.Dest)
		if anchors[strings.ToLower(target)] {
			msg += fmt.Sprintf(" (anchors are lowercase: %q)", "#"+strings.ToLower(target))
		}
		out = append(out, Finding{Severity: Error, Line: l.Line, Message: msg})
	}
	return out
}

// FenceBalanceCheck verifies that every fenced code block is closed
// before the document ends.
type FenceBalanceCheck struct{}

// NewFenceBalanceCheck creates the fence-balance check.
func NewFenceBalanceCheck() *FenceBalanceCheck {
	return &FenceBalanceCheck{}
}

// ID returns "fence-balance".
func (c *FenceBalanceCheck) ID() string { return "fence-balance" }

// Description returns a one-line description.
func (c *FenceBalanceCheck) Description() string {
	return "every fenced code block is closed"
}

// Run reports an Error at the opening fence of each unterminated block.
func (c *FenceBalanceCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	for _, cb := range doc.CodeBlocks {
		if cb.Fenced && !cb.Closed {
			out = append(out, Finding{
				Severity: Error,
				Line:     cb.Line,
				Message:  "fenced code block is never closed",
			})
		}
	}
	return out
}

// FenceLanguageCheck verifies that fenced code blocks carry an info
// string, so syntax highlighting works wherever the guide renders.
type FenceLanguageCheck struct{}

// NewFenceLanguageCheck creates the fence-language check.
func NewFenceLanguageCheck() *FenceLanguageCheck {
	return &FenceLanguageCheck{}
}

// ID returns "fence-language".
func (c *FenceLanguageCheck) ID() string { return "fence-language" }

// Description returns a one-line description.
func (c *FenceLanguageCheck) Description() string {
	return "fenced code blocks declare a language"
}

// Run reports a Warning for each closed fence with no info string.
// Unclosed fences are left to fence-balance.
func (c *FenceLanguageCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	for _, cb := range doc.CodeBlocks {
		if cb.Fenced && cb.Closed && cb.Info == "" {
			out = append(out, Finding{
				Severity: Warning,
				Line:     cb.Line,
				Message:  "fenced code block has no language tag",
			})
		}
	}
	return out
}

// HeadingJumpsCheck verifies that heading levels increase one step at a
// time.
type HeadingJumpsCheck struct{}

// NewHeadingJumpsCheck creates the heading-jumps check.
func NewHeadingJumpsCheck() *HeadingJumpsCheck {
	return &HeadingJumpsCheck{}
}

// ID returns "heading-jumps".
func (c *HeadingJumpsCheck) ID() string { return "heading-jumps" }

// Description returns a one-line description.
func (c *HeadingJumpsCheck) Description() string {
	return "heading levels increase one step at a time"
}

// Run reports a Warning wherever a heading is more than one level
// deeper than the previous one.
func (c *HeadingJumpsCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	prev := 0
	for _, b := range doc.Blocks {
		if b.Type != core.BlockHeading {
			continue
		}
		if prev > 0 && b.Level > prev+1 {
			out = append(out, Finding{
				Severity: Warning,
				Line:     b.StartLine,
				Message:  fmt.Sprintf("heading level jumps from h%d to h%d", prev, b.Level),
			})
		}
		prev = b.Level
	}
	return out
}

// DuplicateHeadingsCheck verifies that no two sibling sections share a
// heading. Duplicates still get anchors (suffixed -1, -2) but links to
// them are fragile.
type DuplicateHeadingsCheck struct{}

// NewDuplicateHeadingsCheck creates the duplicate-headings check.
func NewDuplicateHeadingsCheck() *DuplicateHeadingsCheck {
	return &DuplicateHeadingsCheck{}
}

// ID returns "duplicate-headings".
func (c *DuplicateHeadingsCheck) ID() string { return "duplicate-headings" }

// Description returns a one-line description.
func (c *DuplicateHeadingsCheck) Description() string {
	return "no repeated heading text under one parent"
}

// Run reports a Warning at each repeated sibling heading. Requires the
// section tree, so it reports nothing on an unanalyzed document.
func (c *DuplicateHeadingsCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	var walk func(secs []*model.Section)
	walk = func(secs []*model.Section) {
		seen := make(map[string]int)
		for _, s := range secs {
			key := strings.ToLower(s.Heading)
			if first, ok := seen[key]; ok {
				out = append(out, Finding{
					Severity: Warning,
					Line:     s.Line,
					Message:  fmt.Sprintf("duplicate heading %q (first used at line %d)", s.Heading, first),
				})
			} else {
				seen[key] = s.Line
			}
			walk(s.Children)
		}
	}
	walk(doc.Sections)
	return out
}

// TOCSyncCheck verifies that the table of contents and the section tree
// agree: every section at TOC depth is listed, in document order, and
// no entry points at a heading that no longer exists as a section.
type TOCSyncCheck struct {
	depth int
}

// NewTOCSyncCheck creates the toc-sync check.
func NewTOCSyncCheck(config Config) *TOCSyncCheck {
	depth := config.TOCDepth
	if depth < 1 {
		depth = 1
	}
	return &TOCSyncCheck{depth: depth}
}

// ID returns "toc-sync".
func (c *TOCSyncCheck) ID() string { return "toc-sync" }

// Description returns a one-line description.
func (c *TOCSyncCheck) Description() string {
	return "the table of contents matches the section tree"
}

// Run compares the detected TOC against the sections it should cover
// and maps each [toc.Diff] onto a finding. A document with no TOC gets
// a single Info when it is large enough to want one.
func (c *TOCSyncCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	for _, d := range toc.Verify(doc, toc.Options{Depth: c.depth}) {
		switch d.Kind {
		case toc.DiffAbsent:
			out = append(out, Finding{
				Severity: Info,
				Message:  "no table of contents found",
			})
		case toc.DiffMissing:
			out = append(out, Finding{
				Severity: Warning,
				Line:     d.Line,
				Message:  fmt.Sprintf("section %q is missing from the table of contents", d.Text),
			})
		case toc.DiffMisordered:
			out = append(out, Finding{
				Severity: Warning,
				Line:     d.Line,
				Message:  fmt.Sprintf("table of contents entry %q is out of document order", d.Text),
			})
		case toc.DiffStale:
			out = append(out, Finding{
				Severity: Warning,
				Line:     d.Line,
				Message:  fmt.Sprintf("table of contents entry %q does not match any section heading", d.Text),
			})
		}
	}
	return out
}

// ReferenceLinksCheck verifies that reference-style links have
// definitions and that definitions are used.
type ReferenceLinksCheck struct{}

// NewReferenceLinksCheck creates the reference-links check.
func NewReferenceLinksCheck() *ReferenceLinksCheck {
	return &ReferenceLinksCheck{}
}

// ID returns "reference-links".
func (c *ReferenceLinksCheck) ID() string { return "reference-links" }

// Description returns a one-line description.
func (c *ReferenceLinksCheck) Description() string {
	return "reference links have definitions"
}

// Run reports an Error for each undefined reference and an Info for
// each unused definition.
func (c *ReferenceLinksCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	used := make(map[string]bool, len(doc.RefLinks))
	for _, rl := range doc.RefLinks {
		used[strings.ToLower(rl.Label)] = true
		if _, ok := doc.RefDefByLabel(rl.Label); !ok {
			out = append(out, Finding{
				Severity: Error,
				Line:     rl.Line,
				Message:  fmt.Sprintf("reference link [%s] has no definition", rl.Label),
			})
		}
	}
	for _, def := range doc.RefDefs {
		if !used[strings.ToLower(def.Label)] {
			out = append(out, Finding{
				Severity: Info,
				Line:     def.Line,
				Message:  fmt.Sprintf("link definition [%s] is never used", def.Label),
			})
		}
	}
	return out
}

// TableShapeCheck verifies that every table row has the header's column
// count.
type TableShapeCheck struct{}

// NewTableShapeCheck creates the table-shape check.
func NewTableShapeCheck() *TableShapeCheck {
	return &TableShapeCheck{}
}

// ID returns "table-shape".
func (c *TableShapeCheck) ID() string { return "table-shape" }

// Description returns a one-line description.
func (c *TableShapeCheck) Description() string {
	return "table rows match the header's column count"
}

// Run reports a Warning per misshapen row. The header is at the table's
// first line, the delimiter row right after it, data rows follow.
func (c *TableShapeCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	for _, t := range doc.Tables {
		if t.RowCount() == 0 {
			continue
		}
		header := len(t.Rows[0])
		if len(t.Aligns) != header {
			out = append(out, Finding{
				Severity: Warning,
				Line:     t.Line + 1,
				Message:  fmt.Sprintf("delimiter row has %d columns, header has %d", len(t.Aligns), header),
			})
		}
		for i := 1; i < len(t.Rows); i++ {
			if len(t.Rows[i]) != header {
				out = append(out, Finding{
					Severity: Warning,
					Line:     t.Line + 1 + i,
					Message:  fmt.Sprintf("table row has %d cells, header has %d", len(t.Rows[i]), header),
				})
			}
		}
	}
	return out
}
