// Package lint provides consistency checks for style-guide documents.
//
// A document that renders fine can still be broken in ways readers notice:
// table of contents links that go nowhere, code fences that never close,
// reference links without definitions. This package detects that class of
// problem.
//
// # Checks
//
// Checks are performed by types implementing the [Check] interface. Each
// check has a stable, user-facing ID:
//
//   - toc-anchors - internal links resolve to a heading anchor
//   - fence-balance - every fenced code block is closed
//   - fence-language - fenced blocks declare a language
//   - example-pairs - bad example markers are followed by good ones
//   - heading-jumps - heading levels increase by one at a time
//   - duplicate-headings - no repeated heading text under one parent
//   - toc-sync - the table of contents matches the section tree
//   - reference-links - reference links have definitions
//   - table-shape - table rows match the header's column count
//   - relative-files - relative link targets exist on disk
//   - image-files - local images decode
//   - trailing-whitespace, hard-tabs, long-lines - whitespace hygiene
//
// Checks are registered globally and can be retrieved by ID:
//
//	check := lint.GetCheck("toc-anchors")
//	findings := check.Run(doc)
//
// # Running
//
// [Runner] runs a set of checks over a document and aggregates their
// findings into a [Result]:
//
//	runner := lint.NewRunner()
//	result := runner.Run(doc)
//	for _, f := range result.Findings {
//		fmt.Printf("%s:%d: %s: %s\n", f.Path, f.Line, f.Severity, f.Message)
//	}
//
// # Configuration
//
// Check behavior is controlled by [Config]:
//
//	config := lint.DefaultConfig()
//	config.LineLength = 100
//	runner := lint.NewRunnerWithConfig(config)
//
// Configuration options include:
//
//   - BadMarkers, GoodMarkers - example marker words
//   - CommentPrefixes - comment syntaxes markers may appear behind
//   - TOCDepth - section depth the table of contents must cover
//   - LineLength - long-line limit (0 disables the check)
//   - BaseDir - directory relative links resolve against
//
// # Severity
//
// Findings carry a [Severity] of Info, Warning or Error. Errors are
// reserved for problems that break the reading experience: a dead TOC
// link, an unterminated fence, a dangling reference.
package lint
