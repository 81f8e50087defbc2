package lint

import (
	"testing"

	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/outline"
	"github.com/tsawler/stylemark/reader"
)

func lintDoc(t *testing.T, src, name string) *model.Document {
	t.Helper()
	r, err := reader.FromBytes([]byte(src), name)
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

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      string
		want    Severity
		wantErr bool
	}{
		{"info", Info, false},
		{"Warning", Warning, false},
		{"warn", Warning, false},
		{"ERROR", Error, false},
		{" error ", Error, false},
		{"fatal", Info, true},
		{"", Info, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSeverity(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSeverity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSeverity(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSeverity_String(t *testing.T) {
	if Info.String() != "info" || Warning.String() != "warning" || Error.String() != "error" {
		t.Errorf("got %v %v %v", Info, Warning, Error)
	}
}

const runnerSrc = "# G\n\n[x](#nope)\n\n```\ncode\n```\n"

func TestRunner_Run(t *testing.T) {
	doc := lintDoc(t, runnerSrc, "guide.md")
	res := NewRunner().Run(doc)

	if len(res.Findings) != 2 {
		t.Fatalf("findings = %+v, want 2", res.Findings)
	}
	if res.Findings[0].Check != "toc-anchors" || res.Findings[0].Line != 3 {
		t.Errorf("first finding = %+v", res.Findings[0])
	}
	if res.Findings[1].Check != "fence-language" || res.Findings[1].Line != 5 {
		t.Errorf("second finding = %+v", res.Findings[1])
	}
	if res.Findings[0].Path != "guide.md" {
		t.Errorf("Path = %q, want guide.md", res.Findings[0].Path)
	}
	if res.Worst() != Error {
		t.Errorf("Worst() = %v, want Error", res.Worst())
	}
	if res.Count(Warning) != 1 {
		t.Errorf("Count(Warning) = %d, want 1", res.Count(Warning))
	}
	if len(res.Checked) != len(BuiltinChecks(DefaultConfig())) {
		t.Errorf("Checked = %v", res.Checked)
	}
}

func TestRunner_MinSeverity(t *testing.T) {
	doc := lintDoc(t, runnerSrc, "guide.md")
	r := NewRunner()
	r.MinSeverity(Error)
	res := r.Run(doc)

	if len(res.Findings) != 1 || res.Findings[0].Check != "toc-anchors" {
		t.Errorf("findings = %+v, want only toc-anchors", res.Findings)
	}
}

func TestRunner_Disable(t *testing.T) {
	doc := lintDoc(t, runnerSrc, "guide.md")
	r := NewRunner()
	r.Disable("toc-anchors")
	res := r.Run(doc)

	for _, f := range res.Findings {
		if f.Check == "toc-anchors" {
			t.Errorf("disabled check ran: %+v", f)
		}
	}
	for _, id := range res.Checked {
		if id == "toc-anchors" {
			t.Error("toc-anchors listed as checked")
		}
	}
}

func TestRunner_Only(t *testing.T) {
	doc := lintDoc(t, runnerSrc, "guide.md")
	r := NewRunner()
	r.Only("fence-language")
	res := r.Run(doc)

	if len(res.Checked) != 1 || res.Checked[0] != "fence-language" {
		t.Errorf("Checked = %v, want [fence-language]", res.Checked)
	}
	if len(res.Findings) != 1 {
		t.Errorf("findings = %+v", res.Findings)
	}
}

func TestRunner_UnknownCheck(t *testing.T) {
	doc := lintDoc(t, runnerSrc, "guide.md")
	r := NewRunner()
	r.Only("no-such-check")
	res := r.Run(doc)

	if len(res.Unknown) != 1 || res.Unknown[0] != "no-such-check" {
		t.Errorf("Unknown = %v", res.Unknown)
	}
	if len(res.Findings) != 0 {
		t.Errorf("findings = %+v, want none", res.Findings)
	}
}

type stubCheck struct {
	id       string
	findings []Finding
}

func (s stubCheck) ID() string { return s.id }

func (s stubCheck) Description() string { return "stub" }

func (s stubCheck) Run(doc *model.Document) []Finding { return s.findings }

func TestRunner_Add(t *testing.T) {
	doc := lintDoc(t, "# G\n", "guide.md")
	r := NewRunner()
	r.Add(stubCheck{id: "custom", findings: []Finding{{Severity: Warning, Message: "hi", Line: 1}}})
	res := r.Run(doc)

	found := false
	for _, f := range res.Findings {
		if f.Check == "custom" && f.Message == "hi" {
			found = true
		}
	}
	if !found {
		t.Errorf("custom finding missing: %+v", res.Findings)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(stubCheck{id: "a"})
	reg.Register(stubCheck{id: "b"})
	reg.Register(stubCheck{id: "a"}) // replace keeps position

	if got := reg.List(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("List() = %v", got)
	}
	if reg.Get("a") == nil || reg.Get("c") != nil {
		t.Error("Get() lookup broken")
	}
}

func TestGlobalRegistry_Builtins(t *testing.T) {
	for _, id := range []string{"toc-anchors", "fence-balance", "example-pairs", "long-lines"} {
		if GetCheck(id) == nil {
			t.Errorf("GetCheck(%q) = nil", id)
		}
	}
	if len(ListChecks()) < len(BuiltinChecks(DefaultConfig())) {
		t.Errorf("ListChecks() = %v", ListChecks())
	}
}
