package model

import (
	"strings"

	"github.com/tsawler/stylemark/core"
)

// Document represents a complete analyzed style-guide document
type Document struct {
	Path   string
	Source []byte
	Meta   Metadata

	Blocks     []*core.Block
	Sections   []*Section
	Links      []Link
	RefLinks   []RefLink
	RefDefs    []RefDef
	Anchors    []Anchor
	CodeBlocks []CodeBlock
	Tables     []*Table
	TOC        []TOCEntry
	TOCLine    int // 1-based line of the first TOC entry, 0 when absent
	Lines      int
}

// Metadata contains document-level information
type Metadata struct {
	Title       string
	Description string
	// Custom metadata from frontmatter
	Custom map[string]string
}

// NewDocument creates a new empty document
func NewDocument(path string) *Document {
	return &Document{
		Path: path,
		Meta: Metadata{
			Custom: make(map[string]string),
		},
	}
}

// Title returns the document title: frontmatter first, then the first
// top-level heading.
func (d *Document) Title() string {
	if d.Meta.Title != "" {
		return d.Meta.Title
	}
	for _, s := range d.Sections {
		if s.Level == 1 {
			return s.Heading
		}
	}
	if len(d.Sections) > 0 {
		return d.Sections[0].Heading
	}
	return d.Path
}

// AnchorSet returns the set of anchor IDs a renderer would emit.
func (d *Document) AnchorSet() map[string]bool {
	set := make(map[string]bool, len(d.Anchors))
	for _, a := range d.Anchors {
		set[a.ID] = true
	}
	return set
}

// InternalLinks returns links to anchors within the document.
func (d *Document) InternalLinks() []Link {
	return d.linksOfKind(KindInternal)
}

// ExternalLinks returns http and https links.
func (d *Document) ExternalLinks() []Link {
	return d.linksOfKind(KindExternal)
}

// RelativeLinks returns links to files relative to the document.
func (d *Document) RelativeLinks() []Link {
	return d.linksOfKind(KindRelative)
}

func (d *Document) linksOfKind(kind LinkKind) []Link {
	var out []Link
	for _, l := range d.Links {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

// Images returns image links only.
func (d *Document) Images() []Link {
	var out []Link
	for _, l := range d.Links {
		if l.Image {
			out = append(out, l)
		}
	}
	return out
}

// SectionByAnchor returns the section whose anchor is id, searching the
// whole tree. Returns nil when no section matches.
func (d *Document) SectionByAnchor(id string) *Section {
	var find func(secs []*Section) *Section
	find = func(secs []*Section) *Section {
		for _, s := range secs {
			if s.Anchor == id {
				return s
			}
			if found := find(s.Children); found != nil {
				return found
			}
		}
		return nil
	}
	return find(d.Sections)
}

// AllSections returns the section tree flattened in document order.
func (d *Document) AllSections() []*Section {
	var out []*Section
	var walk func(secs []*Section)
	walk = func(secs []*Section) {
		for _, s := range secs {
			out = append(out, s)
			walk(s.Children)
		}
	}
	walk(d.Sections)
	return out
}

// RefDefByLabel returns the reference definition for label, matched
// case-insensitively the way renderers match labels.
func (d *Document) RefDefByLabel(label string) (RefDef, bool) {
	want := strings.ToLower(strings.TrimSpace(label))
	for _, def := range d.RefDefs {
		if strings.ToLower(strings.TrimSpace(def.Label)) == want {
			return def, true
		}
	}
	return RefDef{}, false
}

// Line returns the raw source line at 1-based number n, without its
// line ending.
func (d *Document) Line(n int) string {
	if n < 1 {
		return ""
	}
	line := 1
	start := 0
	for i := 0; i <= len(d.Source); i++ {
		if i == len(d.Source) || d.Source[i] == '\n' {
			if line == n {
				return strings.TrimSuffix(string(d.Source[start:i]), "\r")
			}
			line++
			start = i + 1
		}
	}
	return ""
}

// SourceLines splits the original source into lines. Index i holds
// source line i+1. A trailing newline does not produce an empty final
// line.
func (d *Document) SourceLines() []string {
	lines := strings.Split(string(d.Source), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// TOCEntry represents an entry in the table of contents
type TOCEntry struct {
	Level int    // Nesting level (1 = top)
	Text  string // Link text
	Dest  string // Anchor destination including leading #
	Line  int    // Source line (1-indexed)
}

// Anchor represents an anchor ID available as a link target
type Anchor struct {
	ID       string
	Heading  string // Heading text, empty for explicit HTML anchors
	Line     int
	Explicit bool // True for <a name=...> / <a id=...> anchors
}

// CodeBlock represents one code example
type CodeBlock struct {
	Language string
	Info     string
	Code     []string
	Line     int // Opening fence line (1-indexed)
	EndLine  int
	Fenced   bool
	Closed   bool
}

// Text returns the code joined into a single string.
func (c CodeBlock) Text() string {
	return strings.Join(c.Code, "\n")
}
