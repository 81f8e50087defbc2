package model

import "github.com/tsawler/stylemark/core"

// Section represents one heading and the content under it
type Section struct {
	Heading string
	Level   int
	Anchor  string
	Line    int // Heading source line (1-indexed)
	EndLine int // Last line of the section's own content

	Blocks   []*core.Block // Content blocks between this heading and the next
	Children []*Section

	parent *Section
}

// AddChild appends child to the section and records the parentage.
func (s *Section) AddChild(child *Section) {
	child.parent = s
	s.Children = append(s.Children, child)
}

// Parent returns the enclosing section, or nil at the top level.
func (s *Section) Parent() *Section {
	return s.parent
}

// Path returns the heading trail from the document root to this section.
func (s *Section) Path() []string {
	if s.parent == nil {
		return []string{s.Heading}
	}
	return append(s.parent.Path(), s.Heading)
}

// Depth returns how many ancestors the section has.
func (s *Section) Depth() int {
	d := 0
	for p := s.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// SubtreeEnd returns the last source line covered by the section or any
// of its descendants.
func (s *Section) SubtreeEnd() int {
	end := s.EndLine
	if s.Line > end {
		end = s.Line
	}
	for _, c := range s.Children {
		if ce := c.SubtreeEnd(); ce > end {
			end = ce
		}
	}
	return end
}

// CodeBlocks returns the fenced and indented code blocks directly under
// this section, not descending into children.
func (s *Section) CodeBlocks() []*core.Block {
	var out []*core.Block
	for _, b := range s.Blocks {
		if b.Type == core.BlockFencedCode || b.Type == core.BlockIndentedCode {
			out = append(out, b)
		}
	}
	return out
}
