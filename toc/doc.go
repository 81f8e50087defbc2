// Package toc generates, verifies and rewrites tables of contents for
// style-guide documents.
//
// A guide's table of contents is a markdown list of anchor links near
// the top of the document. [Generate] derives the entries a document
// should have from its section tree, [Render] turns entries back into
// markdown, [Verify] reports where the existing list and the tree
// disagree, and [Rewrite] replaces the list in place while leaving
// every other byte of the source untouched:
//
//	entries := toc.Generate(doc.Sections, toc.DefaultOptions())
//	fmt.Print(toc.Render(entries))
//
// Depth is counted from the first content level: in the common case of
// a document with a single top-level heading, its direct children are
// depth one and [Options.Depth] = 1 lists exactly those.
package toc
