package outline

import (
	"github.com/tsawler/stylemark/model"
)

// Config holds configuration options for the outline analyzer.
type Config struct {
	// TOCDepth is the heading depth sections are expected to appear in
	// the table of contents, counted from the first content level.
	TOCDepth int

	// DetectTOC enables table of contents detection.
	DetectTOC bool
}

// DefaultConfig returns a configuration with sensible defaults for
// typical style-guide documents.
func DefaultConfig() Config {
	return Config{
		TOCDepth:  1,
		DetectTOC: true,
	}
}

// Analyzer performs structure analysis on a document.
type Analyzer struct {
	config Config
}

// NewAnalyzer creates an analyzer with the default configuration.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultConfig())
}

// NewAnalyzerWithConfig creates an analyzer with a custom configuration.
func NewAnalyzerWithConfig(config Config) *Analyzer {
	return &Analyzer{config: config}
}

// Result holds the outcome of structure analysis.
type Result struct {
	Sections []*model.Section
	TOC      []model.TOCEntry
	TOCLine  int
	Stats    model.Stats
}

// Analyze builds the section tree and detects the table of contents.
// The document is not modified; call [Result.Apply] to attach the
// results.
func (a *Analyzer) Analyze(doc *model.Document) *Result {
	res := &Result{}
	res.Sections = buildSections(doc)
	if a.config.DetectTOC {
		res.TOC, res.TOCLine = detectTOC(doc)
	}
	return res
}

// Apply attaches the analysis results to the document and computes the
// final statistics.
func (r *Result) Apply(doc *model.Document) {
	doc.Sections = r.Sections
	doc.TOC = r.TOC
	doc.TOCLine = r.TOCLine
	r.Stats = model.Collect(doc)
}
