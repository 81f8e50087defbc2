// Package outline provides structure analysis for style-guide documents.
//
// This package builds the heading tree, locates the table of contents,
// and computes document statistics.
//
// # Analysis
//
// The [Analyzer] orchestrates the detection components:
//
//	analyzer := outline.NewAnalyzer()
//	result := analyzer.Analyze(doc)
//	result.Apply(doc)
//
// # Results
//
// The [Result] contains:
//
//   - Sections - the heading tree with anchors and content blocks
//   - TOC - entries of the detected table of contents
//   - TOCLine - where the TOC starts, 0 when none was found
//   - Stats - aggregate counts, filled in by Apply
//
// # TOC Detection
//
// A table of contents is a list run whose items all begin with internal
// anchor links. The detector prefers a run under a heading whose anchor
// contains "contents"; without one it accepts the first qualifying run
// of at least two entries that appears before any content heading.
//
// # Configuration
//
//	config := outline.DefaultConfig()
//	config.TOCDepth = 3
//	analyzer := outline.NewAnalyzerWithConfig(config)
package outline
