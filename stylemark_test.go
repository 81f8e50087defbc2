package stylemark

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/stylemark/lint"
)

// basicGuide is a small, internally consistent guide: complete TOC,
// closed tagged fence, paired bad/good markers.
const basicGuide = `# Ruby Style Guide

A community-driven Ruby coding style guide.

## Table of Contents

- [Layout](#layout)
- [Strings](#strings)

## Layout

* Use two-space indentation.

` + "```ruby" + `
# bad
def foo()
end

# good
def foo
end
` + "```" + `

## Strings

* Prefer single-quoted strings.
`

func writeGuide(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guide.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenMissingFile(t *testing.T) {
	_, _, err := Open("nonexistent.md").Document()
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}

func TestOpenNoFilename(t *testing.T) {
	_, _, err := Open("").Lint()
	if err == nil {
		t.Error("expected error for empty filename")
	}
}

func TestOpenDocument(t *testing.T) {
	path := writeGuide(t, basicGuide)

	doc, warnings, err := Open(path).Document()
	if err != nil {
		t.Fatalf("failed to analyze guide: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	if got := doc.Title(); got != "Ruby Style Guide" {
		t.Errorf("Title() = %q, want %q", got, "Ruby Style Guide")
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("expected 1 root section, got %d", len(doc.Sections))
	}
	if got := len(doc.AllSections()); got != 4 {
		t.Errorf("expected 4 sections total, got %d", got)
	}
	if doc.TOCLine != 7 {
		t.Errorf("TOCLine = %d, want 7", doc.TOCLine)
	}
	if len(doc.TOC) != 2 {
		t.Errorf("expected 2 detected TOC entries, got %d", len(doc.TOC))
	}
	if len(doc.CodeBlocks) != 1 {
		t.Fatalf("expected 1 code block, got %d", len(doc.CodeBlocks))
	}
	if cb := doc.CodeBlocks[0]; cb.Language != "ruby" || !cb.Closed {
		t.Errorf("code block = %q closed=%v, want ruby closed", cb.Language, cb.Closed)
	}
}

func TestFromBytes(t *testing.T) {
	doc, _, err := FromBytes([]byte(basicGuide), "guide.md").Document()
	if err != nil {
		t.Fatalf("failed to analyze bytes: %v", err)
	}
	if doc.Path != "guide.md" {
		t.Errorf("Path = %q, want guide.md", doc.Path)
	}
}

func TestFromBytesNil(t *testing.T) {
	doc, _, err := FromBytes(nil, "empty.md").Document()
	if err != nil {
		t.Fatalf("nil source should analyze as empty, got %v", err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(doc.Sections))
	}
}

func TestFromReader(t *testing.T) {
	stats, _, err := FromReader(strings.NewReader(basicGuide), "guide.md").Stats()
	if err != nil {
		t.Fatalf("failed to analyze stream: %v", err)
	}
	if stats.Sections != 1 || stats.Headings != 4 {
		t.Errorf("stats = %d sections, %d headings, want 1 and 4", stats.Sections, stats.Headings)
	}
	if stats.CodeBlocks != 1 || stats.TaggedCodeBlocks != 1 {
		t.Errorf("stats = %d code blocks, %d tagged, want 1 and 1", stats.CodeBlocks, stats.TaggedCodeBlocks)
	}
}

type failReader struct{}

func (failReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestFromReaderError(t *testing.T) {
	_, _, err := FromReader(failReader{}, "guide.md").Document()
	if err == nil {
		t.Fatal("expected read error to surface from terminal op")
	}
	if !strings.Contains(err.Error(), "failed to read input") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLintClean(t *testing.T) {
	res, warnings, err := FromBytes([]byte(basicGuide), "guide.md").Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if len(res.Findings) != 0 {
		t.Errorf("expected no findings, got %v", res.Findings)
	}
	if len(res.Checked) == 0 {
		t.Error("expected checks to have run")
	}
}

func TestLintMissingAnchor(t *testing.T) {
	guide := "# Guide\n\nSee [Missing](#missing).\n\n## Real\n\nText.\n"

	res, _, err := FromBytes([]byte(guide), "guide.md").Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}

	var found *lint.Finding
	for i, f := range res.Findings {
		if f.Check == "toc-anchors" {
			found = &res.Findings[i]
			break
		}
	}
	if found == nil {
		t.Fatalf("expected a toc-anchors finding, got %v", res.Findings)
	}
	if found.Severity != lint.Error {
		t.Errorf("severity = %v, want Error", found.Severity)
	}
	if found.Line != 3 {
		t.Errorf("line = %d, want 3", found.Line)
	}
}

func TestLintChecksRestrict(t *testing.T) {
	guide := "# Guide\n\nSee [Missing](#missing).\n\nTrailing space. \n"

	res, _, err := FromBytes([]byte(guide), "guide.md").
		Checks("toc-anchors").
		Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	if len(res.Checked) != 1 || res.Checked[0] != "toc-anchors" {
		t.Errorf("Checked = %v, want [toc-anchors]", res.Checked)
	}
	for _, f := range res.Findings {
		if f.Check != "toc-anchors" {
			t.Errorf("unexpected finding from %q", f.Check)
		}
	}
}

func TestLintDisable(t *testing.T) {
	guide := "# Guide\n\nSee [Missing](#missing).\n"

	res, _, err := FromBytes([]byte(guide), "guide.md").
		Disable("toc-anchors").
		Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	for _, f := range res.Findings {
		if f.Check == "toc-anchors" {
			t.Error("disabled check still reported a finding")
		}
	}
}

func TestLintMinSeverity(t *testing.T) {
	guide := "# Guide\n\nTrailing space. \n"

	res, _, err := FromBytes([]byte(guide), "guide.md").Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	if res.Count(lint.Info) == 0 {
		t.Fatal("fixture should produce an info finding")
	}

	res, _, err = FromBytes([]byte(guide), "guide.md").
		MinSeverity(lint.Error).
		Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	if len(res.Findings) != 0 {
		t.Errorf("expected info findings filtered, got %v", res.Findings)
	}
}

func TestLintUnknownCheck(t *testing.T) {
	res, warnings, err := FromBytes([]byte(basicGuide), "guide.md").
		Checks("no-such-check").
		Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	if len(res.Checked) != 0 {
		t.Errorf("expected no checks to run, got %v", res.Checked)
	}

	var warned bool
	for _, w := range warnings {
		if w.Type == WarnUnknownCheck && strings.Contains(w.Message, "no-such-check") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected an unknown-check warning, got %v", warnings)
	}
}

func TestLineLength(t *testing.T) {
	guide := "# Guide\n\n" + strings.Repeat("word ", 30) + "end.\n"

	res, _, err := FromBytes([]byte(guide), "guide.md").LineLength(80).Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}

	var found bool
	for _, f := range res.Findings {
		if f.Check == "long-lines" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a long-lines finding, got %v", res.Findings)
	}
}

func TestRules(t *testing.T) {
	inv, _, err := FromBytes([]byte(basicGuide), "guide.md").Rules()
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if len(inv.Rules) == 0 {
		t.Fatal("expected rules to be extracted")
	}

	var layout []string
	for _, r := range inv.Rules {
		if len(r.Section) > 0 && r.Section[len(r.Section)-1] == "Layout" {
			for _, ex := range r.Examples {
				layout = append(layout, ex.Label)
			}
		}
	}
	if len(layout) != 2 || layout[0] != "bad" || layout[1] != "good" {
		t.Errorf("layout example labels = %v, want [bad good]", layout)
	}
}

func TestExampleMarkers(t *testing.T) {
	guide := "# Guide\n\n## Strings\n\n* Prefer single quotes.\n\n" +
		"```ruby\n# avoid\nx = \"a\"\n\n# prefer\nx = 'a'\n```\n"

	inv, _, err := FromBytes([]byte(guide), "guide.md").
		ExampleMarkers("avoid", "prefer").
		Rules()
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}

	var labels []string
	for _, r := range inv.Rules {
		for _, ex := range r.Examples {
			labels = append(labels, ex.Label)
		}
	}
	if len(labels) != 2 || labels[0] != "avoid" || labels[1] != "prefer" {
		t.Errorf("labels = %v, want [avoid prefer]", labels)
	}
}

func TestTOC(t *testing.T) {
	entries, _, err := FromBytes([]byte(basicGuide), "guide.md").TOC()
	if err != nil {
		t.Fatalf("toc failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", entries)
	}
	if entries[0].Text != "Layout" || entries[0].Dest != "#layout" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Text != "Strings" || entries[1].Dest != "#strings" {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestTOCDepth(t *testing.T) {
	guide := "# Guide\n\n## Layout\n\n### Indentation\n\nText.\n"

	entries, _, err := FromBytes([]byte(guide), "guide.md").TOCDepth(2).TOC()
	if err != nil {
		t.Fatalf("toc failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %v", entries)
	}
	if entries[1].Text != "Indentation" || entries[1].Level != 2 {
		t.Errorf("nested entry = %+v, want level 2 Indentation", entries[1])
	}
}

func TestHTML(t *testing.T) {
	page, _, err := FromBytes([]byte(basicGuide), "guide.md").HTML()
	if err != nil {
		t.Fatalf("html failed: %v", err)
	}
	if !strings.Contains(page, `<h2 id="strings">`) {
		t.Error("expected anchored Strings heading in output")
	}
	if !strings.Contains(page, "single-quoted") {
		t.Error("expected rule text in output")
	}
}

func TestText(t *testing.T) {
	text, _, err := FromBytes([]byte(basicGuide), "guide.md").Text()
	if err != nil {
		t.Fatalf("text failed: %v", err)
	}
	if !strings.Contains(text, "Use two-space indentation.") {
		t.Error("expected prose in output")
	}
	if strings.Contains(text, "def foo") {
		t.Error("expected code stripped from output")
	}
	if strings.Contains(text, "```") {
		t.Error("expected fence markers stripped from output")
	}
}

func TestChainDoesNotMutateParent(t *testing.T) {
	base := FromBytes([]byte(basicGuide), "guide.md")
	derived := base.Disable("toc-anchors").Checks("fence-balance").TOCDepth(3)

	if len(base.options.disable) != 0 || len(base.options.checks) != 0 {
		t.Error("chain mutated parent analyzer")
	}
	if base.options.tocDepth != 1 {
		t.Errorf("parent tocDepth = %d, want 1", base.options.tocDepth)
	}
	if derived.options.tocDepth != 3 {
		t.Errorf("derived tocDepth = %d, want 3", derived.options.tocDepth)
	}
}

func TestWarningUnclosedFence(t *testing.T) {
	guide := "# Guide\n\n```ruby\nx = 1\n"

	_, warnings, err := FromBytes([]byte(guide), "guide.md").Document()
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}

	var w *Warning
	for i := range warnings {
		if warnings[i].Type == WarnUnclosedFence {
			w = &warnings[i]
		}
	}
	if w == nil {
		t.Fatalf("expected an unclosed-fence warning, got %v", warnings)
	}
	if w.Line != 3 {
		t.Errorf("warning line = %d, want 3", w.Line)
	}
}

func TestWarningNestedUnclosedFence(t *testing.T) {
	// The open fence under the bullet swallows the rest of the input,
	// so the Later heading never becomes a section. The warning is what
	// tells the caller why.
	guide := "# Guide\n\n## Layout\n\n* Avoid:\n  ```ruby\n  x = 1\n\n## Later\n"

	doc, warnings, err := FromBytes([]byte(guide), "guide.md").Document()
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}

	var w *Warning
	for i := range warnings {
		if warnings[i].Type == WarnUnclosedFence {
			w = &warnings[i]
		}
	}
	if w == nil {
		t.Fatalf("expected an unclosed-fence warning, got %v", warnings)
	}
	if w.Line != 6 {
		t.Errorf("warning line = %d, want 6", w.Line)
	}
	for _, s := range doc.AllSections() {
		if s.Heading == "Later" {
			t.Error("Later became a section despite the open fence")
		}
	}
}

func TestWarningFrontmatter(t *testing.T) {
	guide := "---\ntitle: [unclosed\n---\n\n# Guide\n"

	doc, warnings, err := FromBytes([]byte(guide), "guide.md").Document()
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}
	if doc.Title() != "Guide" {
		t.Errorf("Title() = %q, want body heading after skipped frontmatter", doc.Title())
	}

	var warned bool
	for _, w := range warnings {
		if w.Type == WarnFrontmatter && w.Line == 1 {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a frontmatter warning at line 1, got %v", warnings)
	}
}

func TestWarningSetextHeading(t *testing.T) {
	guide := "Guide\n=====\n\nLayout\n------\n\nText.\n"

	_, warnings, err := FromBytes([]byte(guide), "guide.md").Document()
	if err != nil {
		t.Fatalf("document failed: %v", err)
	}

	var lines []int
	for _, w := range warnings {
		if w.Type == WarnSetextHeading {
			lines = append(lines, w.Line)
		}
	}
	// Only the --- underline is ambiguous; === is not flagged.
	if len(lines) != 1 || lines[0] != 4 {
		t.Errorf("setext warning lines = %v, want [4]", lines)
	}
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Type: WarnUnclosedFence, Message: "fence opened here is never closed", Line: 3},
		{Type: WarnUnknownCheck, Message: `no check named "bogus"`},
	}

	got := FormatWarnings(warnings)
	want := "unclosed-fence: fence opened here is never closed (line 3)\n" +
		`unknown-check: no check named "bogus"`
	if got != want {
		t.Errorf("FormatWarnings() = %q, want %q", got, want)
	}

	if FormatWarnings(nil) != "" {
		t.Error("expected empty string for no warnings")
	}
}

func TestGuideFixture(t *testing.T) {
	path := filepath.Join("testdata", "guide.md")

	doc, warnings, err := Open(path).Document()
	if err != nil {
		t.Fatalf("failed to analyze fixture: %v", err)
	}
	if got := doc.Title(); got != "Example Ruby Style Guide" {
		t.Errorf("Title() = %q", got)
	}
	if doc.TOCLine != 11 {
		t.Errorf("TOCLine = %d, want 11", doc.TOCLine)
	}
	if len(warnings) != 1 || warnings[0].Type != WarnUnclosedFence || warnings[0].Line != 39 {
		t.Errorf("warnings = %v, want one unclosed-fence at line 39", warnings)
	}

	res, _, err := Open(path).Lint()
	if err != nil {
		t.Fatalf("lint failed: %v", err)
	}
	want := []struct {
		check    string
		severity lint.Severity
		line     int
	}{
		{"toc-anchors", lint.Error, 13},
		{"toc-sync", lint.Warning, 35},
		{"fence-balance", lint.Error, 39},
	}
	if len(res.Findings) != len(want) {
		t.Fatalf("findings = %v, want %d", res.Findings, len(want))
	}
	for i, w := range want {
		f := res.Findings[i]
		if f.Check != w.check || f.Severity != w.severity || f.Line != w.line {
			t.Errorf("finding %d = %s/%v at %d, want %s/%v at %d",
				i, f.Check, f.Severity, f.Line, w.check, w.severity, w.line)
		}
	}

	inv, _, err := Open(path).Rules()
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	if len(inv.Rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(inv.Rules))
	}
	if got := len(inv.ByLabel("bad")); got != 1 {
		t.Errorf("ByLabel(bad) = %d rules, want 1", got)
	}
	if got := len(inv.Untagged()); got != 1 {
		t.Errorf("Untagged() = %d rules, want 1", got)
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must() = %d, want 42", got)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected Must to panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}

func TestMustResult(t *testing.T) {
	doc := MustResult(FromBytes([]byte(basicGuide), "guide.md").Document())
	if doc.Title() != "Ruby Style Guide" {
		t.Errorf("Title() = %q", doc.Title())
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustResult to panic on error")
		}
	}()
	MustResult(Open("nonexistent.md").Document())
}
