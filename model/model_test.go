package model

import (
	"strings"
	"testing"

	"github.com/tsawler/stylemark/core"
)

func buildTestDocument() *Document {
	d := NewDocument("guide.md")
	d.Lines = 40
	d.Source = []byte("# Guide\n\nIntro line.\n")

	routing := &Section{Heading: "Routing", Level: 2, Anchor: "routing", Line: 10}
	nested := &Section{Heading: "Member Routes", Level: 3, Anchor: "member-routes", Line: 14}
	routing.AddChild(nested)
	models := &Section{Heading: "Models", Level: 2, Anchor: "models", Line: 20}
	d.Sections = []*Section{routing, models}

	d.Anchors = []Anchor{
		{ID: "routing", Heading: "Routing", Line: 10},
		{ID: "member-routes", Heading: "Member Routes", Line: 14},
		{ID: "models", Heading: "Models", Line: 20},
		{ID: "legacy", Explicit: true, Line: 3},
	}
	d.Links = []Link{
		{Text: "Routing", Dest: "#routing", Kind: KindInternal, Line: 4},
		{Text: "Rails", Dest: "https://rubyonrails.org", Kind: KindExternal, Line: 11},
		{Text: "diagram", Dest: "images/flow.png", Kind: KindRelative, Image: true, Line: 12},
		{Text: "mail", Dest: "mailto:x@example.com", Kind: KindMailto, Line: 13},
	}
	d.RefDefs = []RefDef{{Label: "Rails-Guide", Dest: "https://guides.rubyonrails.org", Line: 39}}
	return d
}

func TestDocument_AnchorSet(t *testing.T) {
	d := buildTestDocument()
	set := d.AnchorSet()
	for _, id := range []string{"routing", "member-routes", "models", "legacy"} {
		if !set[id] {
			t.Errorf("AnchorSet() missing %q", id)
		}
	}
	if set["missing"] {
		t.Error("AnchorSet() contains anchor that was never added")
	}
}

func TestDocument_LinkFilters(t *testing.T) {
	d := buildTestDocument()

	if got := d.InternalLinks(); len(got) != 1 || got[0].Fragment() != "routing" {
		t.Errorf("InternalLinks() = %+v", got)
	}
	if got := d.ExternalLinks(); len(got) != 1 || got[0].Dest != "https://rubyonrails.org" {
		t.Errorf("ExternalLinks() = %+v", got)
	}
	if got := d.RelativeLinks(); len(got) != 1 || got[0].Dest != "images/flow.png" {
		t.Errorf("RelativeLinks() = %+v", got)
	}
	if got := d.Images(); len(got) != 1 || !got[0].Image {
		t.Errorf("Images() = %+v", got)
	}
}

func TestDocument_SectionByAnchor(t *testing.T) {
	d := buildTestDocument()

	if s := d.SectionByAnchor("member-routes"); s == nil || s.Heading != "Member Routes" {
		t.Errorf("SectionByAnchor(member-routes) = %+v", s)
	}
	if s := d.SectionByAnchor("nope"); s != nil {
		t.Errorf("SectionByAnchor(nope) = %+v, want nil", s)
	}
}

func TestSection_PathAndDepth(t *testing.T) {
	d := buildTestDocument()
	nested := d.SectionByAnchor("member-routes")

	path := nested.Path()
	want := []string{"Routing", "Member Routes"}
	if len(path) != len(want) {
		t.Fatalf("Path() = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("Path()[%d] = %q, want %q", i, path[i], want[i])
		}
	}
	if nested.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", nested.Depth())
	}
	if nested.Parent() == nil || nested.Parent().Heading != "Routing" {
		t.Errorf("Parent() = %+v", nested.Parent())
	}
}

func TestDocument_AllSections(t *testing.T) {
	d := buildTestDocument()
	all := d.AllSections()
	want := []string{"Routing", "Member Routes", "Models"}
	if len(all) != len(want) {
		t.Fatalf("AllSections() returned %d sections, want %d", len(all), len(want))
	}
	for i, s := range all {
		if s.Heading != want[i] {
			t.Errorf("AllSections()[%d] = %q, want %q", i, s.Heading, want[i])
		}
	}
}

func TestDocument_RefDefByLabel(t *testing.T) {
	d := buildTestDocument()

	if def, ok := d.RefDefByLabel("rails-guide"); !ok || def.Dest != "https://guides.rubyonrails.org" {
		t.Errorf("RefDefByLabel(rails-guide) = %+v, %v", def, ok)
	}
	if _, ok := d.RefDefByLabel("unknown"); ok {
		t.Error("RefDefByLabel(unknown) = true, want false")
	}
}

func TestDocument_Line(t *testing.T) {
	d := buildTestDocument()
	tests := []struct {
		n    int
		want string
	}{
		{1, "# Guide"},
		{2, ""},
		{3, "Intro line."},
		{99, ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := d.Line(tt.n); got != tt.want {
			t.Errorf("Line(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestClassifyDest(t *testing.T) {
	tests := []struct {
		dest string
		want LinkKind
	}{
		{"#routing", KindInternal},
		{"https://rubyonrails.org", KindExternal},
		{"http://example.com", KindExternal},
		{"mailto:team@example.com", KindMailto},
		{"ftp://files.example.com", KindOther},
		{"CONTRIBUTING.md", KindRelative},
		{"../README.md", KindRelative},
		{"images/flow.png", KindRelative},
	}
	for _, tt := range tests {
		if got := ClassifyDest(tt.dest); got != tt.want {
			t.Errorf("ClassifyDest(%q) = %v, want %v", tt.dest, got, tt.want)
		}
	}
}

func TestTable_Shape(t *testing.T) {
	tbl := &Table{
		Rows: [][]string{
			{"Method", "Purpose"},
			{"find", "lookup"},
			{"where", "filter"},
		},
		Aligns: []core.Alignment{core.AlignNone, core.AlignNone},
		Line:   5,
	}

	if !tbl.IsRectangular() {
		t.Error("IsRectangular() = false for rectangular table")
	}
	if tbl.RowCount() != 3 || tbl.ColCount() != 2 {
		t.Errorf("shape = %dx%d, want 3x2", tbl.RowCount(), tbl.ColCount())
	}
	if tbl.Cell(1, 0) != "find" {
		t.Errorf("Cell(1,0) = %q", tbl.Cell(1, 0))
	}
	if tbl.Cell(9, 9) != "" {
		t.Error("out-of-bounds Cell() should return empty string")
	}

	tbl.Rows = append(tbl.Rows, []string{"lonely"})
	if tbl.IsRectangular() {
		t.Error("IsRectangular() = true after adding a short row")
	}
}

func TestTable_ToMarkdownAndCSV(t *testing.T) {
	tbl := &Table{
		Rows: [][]string{
			{"Name", "Note"},
			{"find", "has, comma"},
		},
		Aligns: []core.Alignment{core.AlignNone, core.AlignCenter},
	}

	md := tbl.ToMarkdown()
	if !strings.Contains(md, "| Name | Note |") {
		t.Errorf("ToMarkdown() header = %q", md)
	}
	if !strings.Contains(md, "|:---:") {
		t.Errorf("ToMarkdown() missing center alignment: %q", md)
	}

	csv := tbl.ToCSV()
	if !strings.Contains(csv, `"has, comma"`) {
		t.Errorf("ToCSV() did not quote comma cell: %q", csv)
	}
}

func TestCollect(t *testing.T) {
	d := buildTestDocument()
	d.Blocks = []*core.Block{
		{Type: core.BlockHeading, Text: "Guide"},
		{Type: core.BlockParagraph, Text: "Use two spaces per indentation level."},
		{Type: core.BlockListItem, Text: "Avoid tabs."},
	}
	d.CodeBlocks = []CodeBlock{
		{Language: "ruby", Code: []string{"a = 1", "b = 2"}, Fenced: true, Closed: true},
		{Code: []string{"untagged"}, Fenced: true, Closed: true},
	}
	d.TOC = []TOCEntry{{Level: 1, Text: "Routing", Dest: "#routing", Line: 4}}

	s := Collect(d)
	if s.Headings != 3 {
		t.Errorf("Headings = %d, want 3", s.Headings)
	}
	if s.Sections != 2 {
		t.Errorf("Sections = %d, want 2", s.Sections)
	}
	if s.MaxHeadingDepth != 3 {
		t.Errorf("MaxHeadingDepth = %d, want 3", s.MaxHeadingDepth)
	}
	if s.CodeBlocks != 2 || s.TaggedCodeBlocks != 1 || s.CodeLines != 3 {
		t.Errorf("code stats = %d/%d/%d, want 2/1/3", s.CodeBlocks, s.TaggedCodeBlocks, s.CodeLines)
	}
	if s.InternalLinks != 1 || s.ExternalLinks != 1 || s.RelativeLinks != 1 {
		t.Errorf("link stats = %d/%d/%d, want 1/1/1", s.InternalLinks, s.ExternalLinks, s.RelativeLinks)
	}
	if s.Words != 1+6+2 {
		t.Errorf("Words = %d, want 9", s.Words)
	}
	if s.TOCEntries != 1 {
		t.Errorf("TOCEntries = %d, want 1", s.TOCEntries)
	}
	if s.ListItems != 1 {
		t.Errorf("ListItems = %d, want 1", s.ListItems)
	}
}
