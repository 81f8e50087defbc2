package toc

import (
	"strings"

	"github.com/tsawler/stylemark/model"
)

// DiffKind classifies a disagreement between the table of contents and
// the section tree.
type DiffKind int

const (
	// DiffAbsent means the document has no table of contents at all.
	DiffAbsent DiffKind = iota

	// DiffMissing means a section is not listed.
	DiffMissing

	// DiffStale means an entry points at an anchor that resolves but
	// belongs to no section heading.
	DiffStale

	// DiffMisordered means an entry is out of document order.
	DiffMisordered
)

// String returns a human-readable name for the diff kind.
func (k DiffKind) String() string {
	switch k {
	case DiffAbsent:
		return "absent"
	case DiffMissing:
		return "missing"
	case DiffStale:
		return "stale"
	case DiffMisordered:
		return "misordered"
	default:
		return "unknown"
	}
}

// Diff is one disagreement between the table of contents and the
// section tree.
type Diff struct {
	Kind   DiffKind
	Text   string // Section heading or entry text
	Anchor string
	Line   int // Source line of the section or entry, 0 for DiffAbsent
}

// Verify compares the document's table of contents against the
// sections it should list. Missing sections are reported in document
// order, a misordered entry at most once, then stale entries in list
// order. A document without a table of contents yields a single
// [DiffAbsent] when it has enough sections to want one.
func Verify(doc *model.Document, opts Options) []Diff {
	depth := opts.Depth
	if depth < 1 {
		depth = 1
	}
	expected := targets(doc, depth)

	if len(doc.TOC) == 0 {
		if len(expected) >= 2 {
			return []Diff{{Kind: DiffAbsent}}
		}
		return nil
	}

	listed := make(map[string]int, len(doc.TOC))
	for i, e := range doc.TOC {
		listed[strings.TrimPrefix(e.Dest, "#")] = i
	}

	var out []Diff
	lastIdx := -1
	orderReported := false
	for _, s := range expected {
		idx, ok := listed[s.Anchor]
		if !ok {
			out = append(out, Diff{Kind: DiffMissing, Text: s.Heading, Anchor: s.Anchor, Line: s.Line})
			continue
		}
		if idx < lastIdx && !orderReported {
			e := doc.TOC[idx]
			out = append(out, Diff{
				Kind:   DiffMisordered,
				Text:   e.Text,
				Anchor: strings.TrimPrefix(e.Dest, "#"),
				Line:   e.Line,
			})
			orderReported = true
		}
		if idx > lastIdx {
			lastIdx = idx
		}
	}

	// Stale entries: the anchor still resolves but no section heading
	// owns it.
	owned := make(map[string]bool)
	for _, s := range doc.AllSections() {
		if s.Anchor != "" {
			owned[s.Anchor] = true
		}
	}
	anchors := doc.AnchorSet()
	for _, e := range doc.TOC {
		a := strings.TrimPrefix(e.Dest, "#")
		if anchors[a] && !owned[a] {
			out = append(out, Diff{Kind: DiffStale, Text: e.Text, Anchor: a, Line: e.Line})
		}
	}
	return out
}

// targets returns the sections the table of contents should list, in
// document order.
func targets(doc *model.Document, depth int) []*model.Section {
	lo, hi := 0, depth-1
	if len(doc.Sections) == 1 {
		lo, hi = 1, depth
	}
	var out []*model.Section
	for _, s := range doc.AllSections() {
		d := s.Depth()
		if d < lo || d > hi {
			continue
		}
		if strings.Contains(s.Anchor, "contents") {
			continue
		}
		out = append(out, s)
	}
	return out
}
