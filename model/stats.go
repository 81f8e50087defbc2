package model

import (
	"strings"

	"github.com/tsawler/stylemark/core"
)

// Stats holds aggregate counts for a document
type Stats struct {
	Lines            int `json:"lines"`
	Words            int `json:"words"`
	Sections         int `json:"sections"`
	Headings         int `json:"headings"`
	MaxHeadingDepth  int `json:"max_heading_depth"`
	CodeBlocks       int `json:"code_blocks"`
	TaggedCodeBlocks int `json:"tagged_code_blocks"`
	CodeLines        int `json:"code_lines"`
	Links            int `json:"links"`
	InternalLinks    int `json:"internal_links"`
	ExternalLinks    int `json:"external_links"`
	RelativeLinks    int `json:"relative_links"`
	Images           int `json:"images"`
	Tables           int `json:"tables"`
	ListItems        int `json:"list_items"`
	TOCEntries       int `json:"toc_entries"`
}

// Collect computes statistics for a document in one pass. Word counts
// cover prose only; code blocks contribute to CodeLines instead.
func Collect(d *Document) Stats {
	s := Stats{
		Lines:      d.Lines,
		Headings:   len(d.AllSections()),
		Sections:   len(d.Sections),
		CodeBlocks: len(d.CodeBlocks),
		Links:      len(d.Links),
		Images:     len(d.Images()),
		Tables:     len(d.Tables),
		TOCEntries: len(d.TOC),
	}

	for _, sec := range d.AllSections() {
		if sec.Level > s.MaxHeadingDepth {
			s.MaxHeadingDepth = sec.Level
		}
	}
	for _, cb := range d.CodeBlocks {
		if cb.Language != "" {
			s.TaggedCodeBlocks++
		}
		s.CodeLines += len(cb.Code)
	}
	for _, l := range d.Links {
		switch l.Kind {
		case KindInternal:
			s.InternalLinks++
		case KindExternal:
			s.ExternalLinks++
		case KindRelative:
			s.RelativeLinks++
		}
	}
	for _, b := range d.Blocks {
		switch b.Type {
		case core.BlockListItem:
			s.ListItems++
			s.Words += wordCount(b.Text)
		case core.BlockParagraph, core.BlockQuote:
			s.Words += wordCount(b.Text)
		case core.BlockHeading:
			s.Words += wordCount(b.Text)
		}
	}
	return s
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
