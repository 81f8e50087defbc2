package plugins

import (
	"fmt"
	"regexp"

	"github.com/tsawler/stylemark/lint"
	"github.com/tsawler/stylemark/model"
)

// Compile turns definitions into runnable checks, validating each one
// on the way. Checks run in definition order.
func Compile(files []DefinitionFile) ([]lint.Check, error) {
	checks := make([]lint.Check, 0, len(files))
	for _, file := range files {
		check, err := compileDefinition(file.Definition)
		if err != nil {
			if file.Path != "" {
				return nil, fmt.Errorf("plugin: %s: %w", file.Path, err)
			}
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// Register compiles definitions and registers the checks globally, so
// every runner created afterwards picks them up.
func Register(files []DefinitionFile) error {
	checks, err := Compile(files)
	if err != nil {
		return err
	}
	for _, c := range checks {
		lint.RegisterCheck(c)
	}
	return nil
}

func compileDefinition(def CheckDefinition) (*patternCheck, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	normalized := def.Normalized()
	re, err := regexp.Compile(normalized.Pattern)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: pattern: %w", normalized.ID, err)
	}
	severity, err := lint.ParseSeverity(normalized.Severity)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", normalized.ID, err)
	}
	return &patternCheck{def: normalized, re: re, severity: severity}, nil
}

// patternCheck is a compiled definition satisfying lint.Check.
type patternCheck struct {
	def      CheckDefinition
	re       *regexp.Regexp
	severity lint.Severity
}

// ID returns the definition's ID.
func (c *patternCheck) ID() string { return c.def.ID }

// Description returns the definition's description, or its message when
// no description was given.
func (c *patternCheck) Description() string {
	if c.def.Description != "" {
		return c.def.Description
	}
	return c.def.Message
}

// Run matches the pattern against every line the scope covers.
func (c *patternCheck) Run(doc *model.Document) []lint.Finding {
	var out []lint.Finding
	for _, sl := range scopedLines(doc, c.def.Scope) {
		if !c.re.MatchString(sl.text) {
			continue
		}
		out = append(out, lint.Finding{
			Severity: c.severity,
			Line:     sl.line,
			Message:  c.def.Message,
		})
	}
	return out
}

type scopedLine struct {
	text string
	line int
}

// scopedLines selects the source lines a scope covers. Prose is every
// line outside code blocks and headings (frontmatter excluded), code
// is the content of code blocks without the fences, heading is the
// heading text alone.
func scopedLines(doc *model.Document, scope Scope) []scopedLine {
	var out []scopedLine
	switch scope {
	case ScopeHeading:
		for _, sec := range doc.AllSections() {
			out = append(out, scopedLine{text: sec.Heading, line: sec.Line})
		}
	case ScopeCode:
		for _, cb := range doc.CodeBlocks {
			start := cb.Line
			if cb.Fenced {
				start++
			}
			for i, text := range cb.Code {
				out = append(out, scopedLine{text: text, line: start + i})
			}
		}
	case ScopeProse:
		code := make(map[int]bool)
		for _, cb := range doc.CodeBlocks {
			for i := cb.Line; i <= cb.EndLine; i++ {
				code[i] = true
			}
		}
		heading := make(map[int]bool)
		for _, sec := range doc.AllSections() {
			heading[sec.Line] = true
		}
		start := 1
		if len(doc.Blocks) > 0 {
			start = doc.Blocks[0].StartLine // skips frontmatter
		}
		for i, text := range doc.SourceLines() {
			n := i + 1
			if n < start || code[n] || heading[n] {
				continue
			}
			out = append(out, scopedLine{text: text, line: n})
		}
	default:
		for i, text := range doc.SourceLines() {
			out = append(out, scopedLine{text: text, line: i + 1})
		}
	}
	return out
}
