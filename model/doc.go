// Package model provides the intermediate representation (IR) for analyzed
// style-guide documents.
//
// This package defines the user-facing data structures that represent the
// semantic structure of a Markdown guide. All scanning and analysis
// operations ultimately produce these types, making them the primary API
// for consuming analysis results.
//
// # Document Structure
//
// The [Document] type represents a complete guide: its metadata, the raw
// block sequence, the section tree, and flat inventories of links,
// anchors, code blocks, and tables. Lookup helpers such as
// [Document.AnchorSet] and [Document.ExternalLinks] serve the common
// queries checks make.
//
// # Sections
//
// [Section] nodes form the heading outline. Each section knows its anchor
// ID, source line, child sections, and the blocks between its heading and
// the next one. [Section.Path] returns the heading trail from the top of
// the document down to the section.
//
// # Links and Anchors
//
// Every link in the document appears exactly once in Document.Links with
// its [LinkKind] classification (internal anchor, relative file, external
// URL, mailto). [Anchor] values record the IDs a renderer would emit for
// headings, plus any explicit <a name> anchors in the source.
//
// # Statistics
//
// [Stats] aggregates document counts. [Collect] fills one from a
// Document in a single pass.
package model
