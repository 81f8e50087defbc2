package plugins

import (
	"testing"

	"github.com/tsawler/stylemark/lint"
	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/outline"
	"github.com/tsawler/stylemark/reader"
)

const guideSrc = `# Guide

Stop!! shouting.

## Usage!!

Some fine prose.

` + "```ruby" + `
x = 1  # ok!!
` + "```" + `
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

func compileOne(t *testing.T, def CheckDefinition) lint.Check {
	t.Helper()
	checks, err := Compile([]DefinitionFile{{Definition: def}})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(checks) != 1 {
		t.Fatalf("Compile() returned %d checks, want 1", len(checks))
	}
	return checks[0]
}

func findingLines(findings []lint.Finding) []int {
	var lines []int
	for _, f := range findings {
		lines = append(lines, f.Line)
	}
	return lines
}

func TestCompileScopes(t *testing.T) {
	doc := parseGuide(t, guideSrc)

	tests := []struct {
		scope Scope
		want  []int
	}{
		{ScopeProse, []int{3}},
		{ScopeHeading, []int{5}},
		{ScopeCode, []int{10}},
		{ScopeAll, []int{3, 5, 10}},
	}
	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			check := compileOne(t, CheckDefinition{
				ID:      "no-exclamations",
				Scope:   tt.scope,
				Pattern: "!{2,}",
				Message: "avoid repeated exclamation marks",
			})
			got := findingLines(check.Run(doc))
			if len(got) != len(tt.want) {
				t.Fatalf("Run() lines = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Run() lines = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestCompileFindingFields(t *testing.T) {
	doc := parseGuide(t, guideSrc)
	check := compileOne(t, CheckDefinition{
		ID:          "no-exclamations",
		Description: "style guides should advise, not shout",
		Severity:    "error",
		Scope:       ScopeProse,
		Pattern:     "!{2,}",
		Message:     "avoid repeated exclamation marks",
	})

	if got := check.ID(); got != "no-exclamations" {
		t.Errorf("ID() = %q", got)
	}
	if got := check.Description(); got != "style guides should advise, not shout" {
		t.Errorf("Description() = %q", got)
	}
	findings := check.Run(doc)
	if len(findings) != 1 {
		t.Fatalf("Run() returned %d findings, want 1", len(findings))
	}
	if findings[0].Severity != lint.Error {
		t.Errorf("Severity = %v, want Error", findings[0].Severity)
	}
	if findings[0].Message != "avoid repeated exclamation marks" {
		t.Errorf("Message = %q", findings[0].Message)
	}
}

func TestCompileMessageFallback(t *testing.T) {
	check := compileOne(t, CheckDefinition{
		ID:          "shouty",
		Description: "no shouting",
		Pattern:     "!{2,}",
	})
	doc := parseGuide(t, guideSrc)

	findings := check.Run(doc)
	if len(findings) == 0 {
		t.Fatal("Run() returned no findings")
	}
	if findings[0].Message != "no shouting" {
		t.Errorf("Message = %q, want the description to stand in", findings[0].Message)
	}
}

func TestCompileInvalidDefinition(t *testing.T) {
	_, err := Compile([]DefinitionFile{{
		Definition: CheckDefinition{ID: "bad", Pattern: "[", Message: "m"},
		Path:       "checks/bad.yaml",
	}})
	if err == nil {
		t.Fatal("Compile() error = nil for an invalid pattern")
	}
}

func TestCompileRunnerIntegration(t *testing.T) {
	doc := parseGuide(t, guideSrc)
	checks, err := Compile([]DefinitionFile{{Definition: CheckDefinition{
		ID:      "no-exclamations",
		Scope:   ScopeProse,
		Pattern: "!{2,}",
		Message: "avoid repeated exclamation marks",
	}}})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	r := lint.NewRunner()
	r.Add(checks...)
	r.Only("no-exclamations")
	res := r.Run(doc)

	if len(res.Findings) != 1 {
		t.Fatalf("Run() returned %d findings, want 1", len(res.Findings))
	}
	f := res.Findings[0]
	if f.Check != "no-exclamations" || f.Path != "guide.md" || f.Line != 3 {
		t.Errorf("finding = %+v", f)
	}
}

func TestRegister(t *testing.T) {
	err := Register([]DefinitionFile{{Definition: CheckDefinition{
		ID:      "registered-shouty",
		Pattern: "!{2,}",
		Message: "avoid repeated exclamation marks",
	}}})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if lint.GetCheck("registered-shouty") == nil {
		t.Error("GetCheck() = nil after Register")
	}
}
