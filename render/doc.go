// Package render turns analyzed documents into presentable output.
//
// [HTML] emits a standalone page: a navigation sidebar built from the
// section tree, headings carrying their anchors, and fenced code under
// <pre><code class="language-..."> so syntax highlighters can pick the
// grammar. Raw HTML blocks are not passed through; they contribute
// their explicit anchors and their text.
//
// [Terminal] renders the original source through glamour for ANSI
// display.
package render
