package toc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tsawler/stylemark/core"
	"github.com/tsawler/stylemark/model"
)

// Rewrite replaces the document's detected table of contents in src
// with a freshly generated one and reports whether anything changed.
// All bytes outside the list lines are preserved, including the
// original line endings. A document without a table of contents is
// returned unchanged; Rewrite does not insert one.
func Rewrite(src []byte, doc *model.Document, opts Options) ([]byte, bool, error) {
	if doc == nil {
		return nil, false, fmt.Errorf("document is nil")
	}
	if doc.TOCLine == 0 || len(doc.TOC) == 0 {
		return src, false, nil
	}

	start, end := tocSpan(doc)
	startOff, endOff, err := lineSpan(src, start, end)
	if err != nil {
		return nil, false, err
	}

	rendered := RenderWith(Generate(doc.Sections, opts), opts)
	if lineEnding(src) == "\r\n" {
		rendered = strings.ReplaceAll(rendered, "\n", "\r\n")
	}
	if string(src[startOff:endOff]) == rendered {
		return src, false, nil
	}

	out := make([]byte, 0, len(src)-(endOff-startOff)+len(rendered))
	out = append(out, src[:startOff]...)
	out = append(out, rendered...)
	out = append(out, src[endOff:]...)
	return out, true, nil
}

// tocSpan returns the first and last source line of the table of
// contents list, widened to whole list item blocks so wrapped entries
// are replaced completely.
func tocSpan(doc *model.Document) (int, int) {
	start := doc.TOCLine
	end := start
	for _, e := range doc.TOC {
		if e.Line > end {
			end = e.Line
		}
	}
	for _, b := range doc.Blocks {
		if b.Type != core.BlockListItem {
			continue
		}
		if b.StartLine >= start && b.StartLine <= end && b.EndLine > end {
			end = b.EndLine
		}
	}
	return start, end
}

// lineSpan returns the byte offsets of the start of line start and of
// the position just past line end, trailing newline included. Lines
// are 1-indexed.
func lineSpan(src []byte, start, end int) (int, int, error) {
	if start < 1 || end < start {
		return 0, 0, fmt.Errorf("invalid line span %d-%d", start, end)
	}
	off := 0
	startOff := -1
	for line := 1; ; line++ {
		if line == start {
			startOff = off
		}
		next := bytes.IndexByte(src[off:], '\n')
		if line == end {
			if next < 0 {
				return startOff, len(src), nil
			}
			return startOff, off + next + 1, nil
		}
		if next < 0 {
			break
		}
		off += next + 1
	}
	return 0, 0, fmt.Errorf("line span %d-%d is outside the document", start, end)
}

// lineEnding returns the dominant line ending of src.
func lineEnding(src []byte) string {
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
