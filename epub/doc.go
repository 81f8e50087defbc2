// Package epub packages a document as an EPUB 3 archive.
//
// The archive follows the OCF layout: a stored (uncompressed) mimetype
// as the first entry, META-INF/container.xml pointing at the OPF
// package document, an XHTML nav document, and one chapter file per
// top-level section. A document with a single top-level heading is
// split one level down, so each major topic becomes its own chapter;
// internal links are rewritten to cross chapter files where needed.
package epub
