package toc

import (
	"reflect"
	"testing"

	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/outline"
	"github.com/tsawler/stylemark/reader"
)

const guideSrc = `# Guide

## Table of Contents

* [Alpha](#alpha)
* [Beta](#beta)

## Alpha

### Inner

Text.

## Beta

More.
`

func parseGuide(t *testing.T, src string) *model.Document {
	t.Helper()
	r, err := reader.FromBytes([]byte(src), "guide.md")
	if err != nil {
		t.Fatalf("FromBytes() error = %v", err)
	}
	doc, _, err := r.Document()
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	outline.NewAnalyzer().Analyze(doc).Apply(doc)
	return doc
}

func TestGenerate_DepthOne(t *testing.T) {
	doc := parseGuide(t, guideSrc)

	got := Generate(doc.Sections, DefaultOptions())
	want := []model.TOCEntry{
		{Level: 1, Text: "Alpha", Dest: "#alpha"},
		{Level: 1, Text: "Beta", Dest: "#beta"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate() = %+v, want %+v", got, want)
	}
}

func TestGenerate_DepthTwo(t *testing.T) {
	doc := parseGuide(t, guideSrc)

	got := Generate(doc.Sections, Options{Depth: 2})
	want := []model.TOCEntry{
		{Level: 1, Text: "Alpha", Dest: "#alpha"},
		{Level: 2, Text: "Inner", Dest: "#inner"},
		{Level: 1, Text: "Beta", Dest: "#beta"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Generate() = %+v, want %+v", got, want)
	}
}

func TestRender(t *testing.T) {
	doc := parseGuide(t, guideSrc)
	entries := Generate(doc.Sections, Options{Depth: 2})

	got := Render(entries)
	want := "* [Alpha](#alpha)\n  * [Inner](#inner)\n* [Beta](#beta)\n"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderWith_Ordered(t *testing.T) {
	doc := parseGuide(t, guideSrc)
	entries := Generate(doc.Sections, Options{Depth: 2})

	got := RenderWith(entries, Options{Ordered: true, Indent: "  "})
	want := "1. [Alpha](#alpha)\n  1. [Inner](#inner)\n2. [Beta](#beta)\n"
	if got != want {
		t.Errorf("RenderWith() = %q, want %q", got, want)
	}
}

func TestVerify_Clean(t *testing.T) {
	doc := parseGuide(t, guideSrc)

	if diffs := Verify(doc, DefaultOptions()); len(diffs) != 0 {
		t.Errorf("Verify() = %+v, want none", diffs)
	}
}

func TestVerify_Missing(t *testing.T) {
	doc := parseGuide(t, `# Guide

## Table of Contents

* [Alpha](#alpha)

## Alpha

Text.

## Beta

More.
`)

	diffs := Verify(doc, DefaultOptions())
	if len(diffs) != 1 {
		t.Fatalf("Verify() = %+v, want 1 diff", diffs)
	}
	d := diffs[0]
	if d.Kind != DiffMissing || d.Text != "Beta" || d.Line != 11 {
		t.Errorf("diff = %+v", d)
	}
}

func TestVerify_Misordered(t *testing.T) {
	doc := parseGuide(t, `# Guide

## Table of Contents

* [Beta](#beta)
* [Alpha](#alpha)

## Alpha

Text.

## Beta

More.
`)

	diffs := Verify(doc, DefaultOptions())
	if len(diffs) != 1 {
		t.Fatalf("Verify() = %+v, want 1 diff", diffs)
	}
	d := diffs[0]
	if d.Kind != DiffMisordered || d.Text != "Beta" || d.Line != 5 {
		t.Errorf("diff = %+v", d)
	}
}

func TestVerify_Stale(t *testing.T) {
	doc := parseGuide(t, `# Guide

<a name="legacy"></a>

## Table of Contents

* [Alpha](#alpha)
* [Old](#legacy)

## Alpha

Text.
`)

	diffs := Verify(doc, DefaultOptions())
	if len(diffs) != 1 {
		t.Fatalf("Verify() = %+v, want 1 diff", diffs)
	}
	d := diffs[0]
	if d.Kind != DiffStale || d.Anchor != "legacy" || d.Line != 8 {
		t.Errorf("diff = %+v", d)
	}
}

func TestVerify_Absent(t *testing.T) {
	doc := parseGuide(t, `# Guide

## Alpha

## Beta
`)

	diffs := Verify(doc, DefaultOptions())
	if len(diffs) != 1 || diffs[0].Kind != DiffAbsent {
		t.Errorf("Verify() = %+v, want one absent diff", diffs)
	}
}

func TestDiffKind_String(t *testing.T) {
	kinds := map[DiffKind]string{
		DiffAbsent:     "absent",
		DiffMissing:    "missing",
		DiffStale:      "stale",
		DiffMisordered: "misordered",
		DiffKind(99):   "unknown",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", int(k), got, want)
		}
	}
}
