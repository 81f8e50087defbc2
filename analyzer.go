package stylemark

import (
	"fmt"

	"github.com/tsawler/stylemark/core"
	"github.com/tsawler/stylemark/lint"
	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/outline"
	"github.com/tsawler/stylemark/reader"
	"github.com/tsawler/stylemark/render"
	"github.com/tsawler/stylemark/rules"
	"github.com/tsawler/stylemark/toc"
)

// oversizeLimit is the source size above which analysis still runs but
// a warning flags the document as far bigger than any real style guide.
const oversizeLimit = 4 << 20

// Analyzer provides a fluent interface for analyzing Markdown style
// guides. Each configuration method returns a new Analyzer instance,
// making it safe for concurrent use and allowing method chaining.
type Analyzer struct {
	// Source (exactly one of filename or src is set)
	filename string
	src      []byte
	name     string

	// Configuration
	options analyzeOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Analyzer with a deep copy of
// options. This ensures immutability; each chain method returns a new
// instance.
func (a *Analyzer) clone() *Analyzer {
	newAn := &Analyzer{
		filename: a.filename,
		src:      a.src,
		name:     a.name,
		options:  a.options.clone(),
		err:      a.err,
	}
	return newAn
}

// ============================================================================
// Configuration Methods (return new Analyzer instance)
// ============================================================================

// Checks restricts linting to the named checks. Multiple calls are
// cumulative. Unknown ids are reported as warnings and ignored.
//
// Example:
//
//	res, _, err := stylemark.Open("README.md").Checks("toc-anchors", "fence-balance").Lint()
func (a *Analyzer) Checks(ids ...string) *Analyzer {
	newAn := a.clone()
	newAn.options.checks = append(newAn.options.checks, ids...)
	return newAn
}

// Disable removes the named checks from the run. Multiple calls are
// cumulative. Unknown ids are reported as warnings and ignored.
//
// Example:
//
//	res, _, err := stylemark.Open("README.md").Disable("long-lines").Lint()
func (a *Analyzer) Disable(ids ...string) *Analyzer {
	newAn := a.clone()
	newAn.options.disable = append(newAn.options.disable, ids...)
	return newAn
}

// MinSeverity drops lint findings below s.
//
// Example:
//
//	res, _, err := stylemark.Open("README.md").MinSeverity(lint.Warning).Lint()
func (a *Analyzer) MinSeverity(s lint.Severity) *Analyzer {
	newAn := a.clone()
	newAn.options.minSeverity = s
	return newAn
}

// ExampleMarkers sets the comment words that label discouraged and
// preferred code examples. Empty strings keep the defaults ("bad" and
// "good").
//
// Example:
//
//	inv, _, err := stylemark.Open("README.md").ExampleMarkers("avoid", "prefer").Rules()
func (a *Analyzer) ExampleMarkers(bad, good string) *Analyzer {
	newAn := a.clone()
	newAn.options.badMarker = bad
	newAn.options.goodMarker = good
	return newAn
}

// LineLength enables the long-lines check with limit n. Zero disables
// it, which is the default.
//
// Example:
//
//	res, _, err := stylemark.Open("README.md").LineLength(100).Lint()
func (a *Analyzer) LineLength(n int) *Analyzer {
	newAn := a.clone()
	newAn.options.lineLength = n
	return newAn
}

// TOCDepth sets how many heading levels the table of contents covers,
// counted from the first content level. The default is 1.
//
// Example:
//
//	entries, _, err := stylemark.Open("README.md").TOCDepth(2).TOC()
func (a *Analyzer) TOCDepth(n int) *Analyzer {
	newAn := a.clone()
	newAn.options.tocDepth = n
	return newAn
}

// ============================================================================
// Terminal Operations
// ============================================================================

// load opens the source, scans it, and applies outline analysis so the
// returned document carries its section tree and detected TOC.
func (a *Analyzer) load() (*model.Document, []Warning, error) {
	if a.err != nil {
		return nil, nil, a.err
	}

	var (
		r   *reader.Reader
		err error
	)
	if a.src != nil {
		r, err = reader.FromBytes(a.src, a.name)
	} else {
		if a.filename == "" {
			return nil, nil, fmt.Errorf("no filename specified")
		}
		r, err = reader.Open(a.filename)
	}
	if err != nil {
		return nil, nil, err
	}

	doc, loadWarns, err := r.Document()
	if err != nil {
		return nil, nil, err
	}

	outline.NewAnalyzerWithConfig(outline.Config{
		TOCDepth:  a.options.tocDepth,
		DetectTOC: true,
	}).Analyze(doc).Apply(doc)

	return doc, collectWarnings(doc, loadWarns), nil
}

// collectWarnings merges the reader's load warnings with conditions
// visible on the scanned document.
func collectWarnings(doc *model.Document, loadWarns []reader.Warning) []Warning {
	var warnings []Warning

	// The reader only reports frontmatter problems.
	for _, w := range loadWarns {
		warnings = append(warnings, Warning{
			Type:    WarnFrontmatter,
			Message: w.Message,
			Line:    w.Line,
		})
	}

	for _, cb := range doc.CodeBlocks {
		if cb.Fenced && !cb.Closed {
			warnings = append(warnings, Warning{
				Type:    WarnUnclosedFence,
				Message: "fence opened here is never closed",
				Line:    cb.Line,
			})
		}
	}

	// A --- underline also reads as a thematic break, so flag headings
	// written that way. An === underline is unambiguous.
	for _, b := range doc.Blocks {
		if b.Type == core.BlockHeading && b.Setext && b.Level == 2 {
			warnings = append(warnings, Warning{
				Type:    WarnSetextHeading,
				Message: fmt.Sprintf("heading %q uses a --- underline", b.Text),
				Line:    b.StartLine,
			})
		}
	}

	if len(doc.Source) > oversizeLimit {
		warnings = append(warnings, Warning{
			Type:    WarnOversized,
			Message: fmt.Sprintf("document is %d bytes; analysis may be slow", len(doc.Source)),
		})
	}

	return warnings
}

// Document loads and analyzes the source and returns the document
// model with its section tree, links, code blocks, and detected table
// of contents populated.
//
// Example:
//
//	doc, warnings, err := stylemark.Open("README.md").Document()
func (a *Analyzer) Document() (*model.Document, []Warning, error) {
	return a.load()
}

// Lint runs the configured checks and returns their findings. Unknown
// check ids requested via Checks or Disable are reported as warnings,
// not errors.
//
// Example:
//
//	res, warnings, err := stylemark.Open("README.md").Lint()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range res.Findings {
//	    fmt.Printf("%d: [%s] %s\n", f.Line, f.Check, f.Message)
//	}
func (a *Analyzer) Lint() (*lint.Result, []Warning, error) {
	doc, warnings, err := a.load()
	if err != nil {
		return nil, nil, err
	}

	runner := lint.NewRunnerWithConfig(a.options.lintConfig())
	if len(a.options.checks) > 0 {
		runner.Only(a.options.checks...)
	}
	if len(a.options.disable) > 0 {
		runner.Disable(a.options.disable...)
	}
	runner.MinSeverity(a.options.minSeverity)

	res := runner.Run(doc)
	for _, id := range res.Unknown {
		warnings = append(warnings, Warning{
			Type:    WarnUnknownCheck,
			Message: fmt.Sprintf("no check named %q", id),
		})
	}
	return res, warnings, nil
}

// Rules extracts the guide's rule inventory: one entry per piece of
// advice, with its section path and labeled code examples.
//
// Example:
//
//	inv, _, err := stylemark.Open("README.md").Rules()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d rules\n", len(inv.Rules))
func (a *Analyzer) Rules() (*rules.Inventory, []Warning, error) {
	doc, warnings, err := a.load()
	if err != nil {
		return nil, nil, err
	}

	config := rules.DefaultExtractorConfig()
	if a.options.badMarker != "" {
		config.BadMarkers = []string{a.options.badMarker}
	}
	if a.options.goodMarker != "" {
		config.GoodMarkers = []string{a.options.goodMarker}
	}
	inv, err := rules.NewExtractorWithConfig(config).Extract(doc)
	if err != nil {
		return nil, warnings, err
	}
	return inv, warnings, nil
}

// TOC generates table-of-contents entries from the document's section
// tree, honoring TOCDepth. It reflects the headings as they are, not
// any TOC block already present in the document.
//
// Example:
//
//	entries, _, err := stylemark.Open("README.md").TOCDepth(2).TOC()
func (a *Analyzer) TOC() ([]model.TOCEntry, []Warning, error) {
	doc, warnings, err := a.load()
	if err != nil {
		return nil, nil, err
	}

	opts := toc.DefaultOptions()
	opts.Depth = a.options.tocDepth
	return toc.Generate(doc.Sections, opts), warnings, nil
}

// Stats collects summary counts for the document.
//
// Example:
//
//	stats, _, err := stylemark.Open("README.md").Stats()
//	fmt.Printf("%d sections, %d code blocks\n", stats.Sections, stats.CodeBlocks)
func (a *Analyzer) Stats() (model.Stats, []Warning, error) {
	doc, warnings, err := a.load()
	if err != nil {
		return model.Stats{}, nil, err
	}
	return model.Collect(doc), warnings, nil
}

// HTML renders the document as a standalone HTML page with anchored
// headings.
//
// Example:
//
//	page, _, err := stylemark.Open("README.md").HTML()
//	os.WriteFile("guide.html", []byte(page), 0o644)
func (a *Analyzer) HTML() (string, []Warning, error) {
	doc, warnings, err := a.load()
	if err != nil {
		return "", nil, err
	}

	page, err := render.HTML(doc, render.Options{})
	if err != nil {
		return "", warnings, err
	}
	return page, warnings, nil
}

// Text returns the document's prose with code blocks stripped. Fence
// markers and code lines are dropped; everything else keeps its
// original line content.
//
// Example:
//
//	prose, _, err := stylemark.Open("README.md").Text()
func (a *Analyzer) Text() (string, []Warning, error) {
	doc, warnings, err := a.load()
	if err != nil {
		return "", nil, err
	}
	return proseOnly(doc), warnings, nil
}

// proseOnly joins the document's lines, skipping every line covered by
// a code block, fences included.
func proseOnly(doc *model.Document) string {
	inCode := make(map[int]bool)
	for _, cb := range doc.CodeBlocks {
		for n := cb.Line; n <= cb.EndLine; n++ {
			inCode[n] = true
		}
	}

	var out []string
	for i, line := range doc.SourceLines() {
		if inCode[i+1] {
			continue
		}
		out = append(out, line)
	}
	return joinLines(out)
}

// joinLines reassembles lines with trailing newline, matching the
// shape of the original source.
func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b []byte
	for _, l := range lines {
		b = append(b, l...)
		b = append(b, '\n')
	}
	return string(b)
}
