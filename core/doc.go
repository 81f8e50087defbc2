// Package core provides low-level Markdown scanning primitives.
//
// This package implements the building blocks for analyzing style-guide
// documents: a line-oriented block scanner, an inline element extractor,
// and GitHub-compatible anchor slug generation.
//
// # Blocks
//
// The [Scanner] type walks a document top to bottom and produces one
// [Block] per structural element, each carrying its exact source line
// span (1-based, inclusive). Block kinds cover the subset of Markdown a
// style guide exercises:
//
//   - [BlockHeading] - ATX (#..######) and setext (===/---) headings
//   - [BlockFencedCode] - ``` or ~~~ fenced code, with info string
//   - [BlockIndentedCode] - 4-space indented code
//   - [BlockParagraph] - runs of plain text lines
//   - [BlockListItem] - one block per bullet or ordered item
//   - [BlockQuote] - > quoted runs
//   - [BlockTable] - GFM pipe tables, parsed into cells
//   - [BlockThematicBreak] - horizontal rules
//   - [BlockHTML] - raw HTML blocks
//   - [BlockLinkRefDef] - [label]: destination definitions
//   - [BlockBlank] - blank-line runs
//
// Scanning never loses source text: every block retains its raw lines,
// so downstream checks can report byte-accurate positions.
//
// # Inline elements
//
// [ScanInlines] extracts links, images, autolinks, reference links, code
// spans, and explicit HTML anchors from a single line of prose. Code
// spans are extracted first and mask link syntax inside backticks.
//
// # Anchors
//
// [Slugger] turns heading text into anchor IDs the way GitHub's renderer
// does (lowercase, punctuation stripped, spaces to hyphens, duplicates
// suffixed -1, -2, ...). A kramdown-style variant is available for
// documents authored against that renderer.
//
// # Limitations
//
// The scanner is deliberately not a full CommonMark parser. Link
// reference definitions are recognized on a single line only, list items
// own their continuation lines without building an item tree, and inline
// emphasis is left to renderers. These trade-offs keep every reported
// position anchored to real source lines.
package core
