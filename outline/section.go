package outline

import (
	"github.com/tsawler/stylemark/core"
	"github.com/tsawler/stylemark/model"
)

// buildSections constructs the heading tree from the document's block
// sequence. Nesting follows heading levels; a level jump keeps the
// deeper heading as a direct child of the nearest shallower one.
func buildSections(doc *model.Document) []*model.Section {
	anchorByLine := make(map[int]string, len(doc.Anchors))
	for _, a := range doc.Anchors {
		if !a.Explicit {
			anchorByLine[a.Line] = a.ID
		}
	}

	var roots []*model.Section
	var stack []*model.Section

	for _, b := range doc.Blocks {
		if b.Type != core.BlockHeading {
			if len(stack) > 0 && b.Type != core.BlockBlank {
				top := stack[len(stack)-1]
				top.Blocks = append(top.Blocks, b)
				if b.EndLine > top.EndLine {
					top.EndLine = b.EndLine
				}
			}
			continue
		}

		sec := &model.Section{
			Heading: b.Text,
			Level:   b.Level,
			Anchor:  anchorByLine[b.StartLine],
			Line:    b.StartLine,
			EndLine: b.EndLine,
		}

		for len(stack) > 0 && stack[len(stack)-1].Level >= b.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, sec)
		} else {
			stack[len(stack)-1].AddChild(sec)
		}
		stack = append(stack, sec)
	}

	return roots
}
