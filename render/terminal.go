package render

import (
	"fmt"

	"github.com/charmbracelet/glamour"

	"github.com/tsawler/stylemark/model"
)

// Terminal renders the document's source for ANSI terminal display.
// width bounds word wrapping; zero or negative means 80 columns.
func Terminal(doc *model.Document, width int) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(string(doc.Source))
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
