// Package reader loads Markdown style-guide sources and assembles the
// document model.
//
// The [Reader] type handles opening files or streams, YAML frontmatter,
// flavor detection, and the scan that turns source text into a
// [model.Document] with its link, anchor, code-block, and table
// inventories filled in. Section-tree construction is the outline
// package's job.
//
// Frontmatter is optional. A document that starts with a --- fence on
// its first line is expected to carry a YAML block; a malformed block is
// skipped with a warning rather than failing the load, and all reported
// line numbers stay relative to the original file.
package reader
