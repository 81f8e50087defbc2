package render

import (
	"strings"

	"github.com/tsawler/stylemark/model"
)

// BodyRenderer emits section subtrees as HTML body fragments, without
// the page chrome. Output split across several files passes a
// rewriteDest hook so internal anchor links can point at the file that
// now holds their target.
type BodyRenderer struct {
	r htmlRenderer
}

// NewBodyRenderer returns a renderer bound to the document's reference
// definitions. rewriteDest may be nil.
func NewBodyRenderer(doc *model.Document, rewriteDest func(dest string) string) *BodyRenderer {
	return &BodyRenderer{
		r: htmlRenderer{ctx: &spanContext{refs: refMap(doc), rewrite: rewriteDest}},
	}
}

// SectionHTML renders one section and its descendants.
func (br *BodyRenderer) SectionHTML(sec *model.Section) string {
	var b strings.Builder
	br.r.writeSection(&b, sec, "", "")
	return b.String()
}
