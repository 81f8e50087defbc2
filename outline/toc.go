package outline

import (
	"sort"
	"strings"

	"github.com/tsawler/stylemark/core"
	"github.com/tsawler/stylemark/model"
)

// tocRun is a candidate table of contents: a consecutive list of items
// that all begin with internal anchor links.
type tocRun struct {
	entries      []model.TOCEntry
	startLine    int
	underHeading string // anchor of the nearest preceding heading
	afterContent bool   // a content heading (level >= 2) appeared before the run
}

// detectTOC locates the table of contents and returns its entries and
// starting line. Zero means no TOC was found.
func detectTOC(doc *model.Document) ([]model.TOCEntry, int) {
	runs := collectRuns(doc)
	if len(runs) == 0 {
		return nil, 0
	}

	// A run under a "contents" heading wins outright.
	for _, run := range runs {
		if strings.Contains(run.underHeading, "contents") {
			return run.entries, run.startLine
		}
	}
	// Otherwise the first multi-entry run before any content heading.
	for _, run := range runs {
		if !run.afterContent && len(run.entries) >= 2 {
			return run.entries, run.startLine
		}
	}
	return nil, 0
}

// collectRuns finds all candidate TOC runs in document order.
func collectRuns(doc *model.Document) []tocRun {
	var runs []tocRun
	var cur *tocRun

	heading := ""
	afterContent := false
	flush := func() {
		if cur != nil && len(cur.entries) > 0 {
			runs = append(runs, *cur)
		}
		cur = nil
	}

	for _, b := range doc.Blocks {
		switch b.Type {
		case core.BlockHeading:
			flush()
			heading = core.Slug(b.Text, core.SlugGitHub)
			if b.Level >= 2 && !strings.Contains(heading, "contents") {
				afterContent = true
			}
		case core.BlockBlank:
			// Blank lines do not break a list run.
		case core.BlockListItem:
			entry, ok := tocEntry(b)
			if !ok {
				flush()
				continue
			}
			if cur == nil {
				cur = &tocRun{
					startLine:    b.StartLine,
					underHeading: heading,
					afterContent: afterContent,
				}
			}
			cur.entries = append(cur.entries, entry)
		default:
			flush()
		}
	}
	flush()

	for i := range runs {
		assignLevels(runs[i].entries)
	}
	return runs
}

// tocEntry extracts a TOC entry from a list item that begins with an
// internal link.
func tocEntry(b *core.Block) (model.TOCEntry, bool) {
	for _, in := range core.ScanInlines(b.Text, b.StartLine) {
		if in.Kind != core.InlineLink {
			continue
		}
		if !strings.HasPrefix(in.Dest, "#") {
			return model.TOCEntry{}, false
		}
		return model.TOCEntry{
			Text: in.Text,
			Dest: in.Dest,
			Line: b.StartLine,
			// Level assigned later from indent ranking.
			Level: b.Indent,
		}, true
	}
	return model.TOCEntry{}, false
}

// assignLevels converts raw indents into 1-based nesting levels by
// ranking the distinct indent widths of the run.
func assignLevels(entries []model.TOCEntry) {
	distinct := map[int]bool{}
	for _, e := range entries {
		distinct[e.Level] = true
	}
	widths := make([]int, 0, len(distinct))
	for w := range distinct {
		widths = append(widths, w)
	}
	sort.Ints(widths)
	rank := make(map[int]int, len(widths))
	for i, w := range widths {
		rank[w] = i + 1
	}
	for i := range entries {
		entries[i].Level = rank[entries[i].Level]
	}
}
