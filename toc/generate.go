package toc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tsawler/stylemark/model"
)

// Options control generation and rendering.
type Options struct {
	// Depth is how many heading levels the table of contents covers,
	// counted from the first content level.
	// Default: 1
	Depth int

	// Ordered renders a numbered list instead of bullets.
	Ordered bool

	// Indent is the indentation prepended per nesting level.
	// Default: two spaces
	Indent string
}

// DefaultOptions returns the options used by [Render].
func DefaultOptions() Options {
	return Options{
		Depth:  1,
		Indent: "  ",
	}
}

// Generate derives table of contents entries from a section forest.
// Sections whose anchor marks them as a table of contents themselves
// are left out. Entry levels start at 1 for the shallowest listed
// sections.
func Generate(sections []*model.Section, opts Options) []model.TOCEntry {
	depth := opts.Depth
	if depth < 1 {
		depth = 1
	}
	lo, hi := 0, depth-1
	if len(sections) == 1 {
		lo, hi = 1, depth
	}

	var entries []model.TOCEntry
	var walk func(secs []*model.Section)
	walk = func(secs []*model.Section) {
		for _, s := range secs {
			d := s.Depth()
			if d >= lo && d <= hi && !strings.Contains(s.Anchor, "contents") {
				entries = append(entries, model.TOCEntry{
					Level: d - lo + 1,
					Text:  s.Heading,
					Dest:  "#" + s.Anchor,
				})
			}
			if d < hi {
				walk(s.Children)
			}
		}
	}
	walk(sections)
	return entries
}

// Render turns entries into a markdown bullet list, one line per
// entry, with a trailing newline.
func Render(entries []model.TOCEntry) string {
	return RenderWith(entries, DefaultOptions())
}

// RenderWith renders entries using the given indent and list style.
// Numbering in ordered lists restarts for each nesting level.
func RenderWith(entries []model.TOCEntry, opts Options) string {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}

	var b strings.Builder
	var counters []int
	for _, e := range entries {
		level := e.Level
		if level < 1 {
			level = 1
		}

		b.WriteString(strings.Repeat(indent, level-1))
		if opts.Ordered {
			for len(counters) < level {
				counters = append(counters, 0)
			}
			counters = counters[:level]
			counters[level-1]++
			b.WriteString(strconv.Itoa(counters[level-1]))
			b.WriteString(". ")
		} else {
			b.WriteString("* ")
		}
		fmt.Fprintf(&b, "[%s](%s)\n", e.Text, e.Dest)
	}
	return b.String()
}
