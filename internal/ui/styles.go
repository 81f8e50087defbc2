// Package ui renders lint results and link reports for the terminal
// and hosts the interactive section browser.
package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tsawler/stylemark/linkcheck"
	"github.com/tsawler/stylemark/lint"
)

var (
	errStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	headStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
)

// severityLabel returns the severity name padded to a fixed column
// width, colored unless plain rendering is requested.
func severityLabel(s lint.Severity, plain bool) string {
	label := fmt.Sprintf("%-7s", s.String())
	if plain {
		return label
	}
	switch s {
	case lint.Error:
		return errStyle.Render(label)
	case lint.Warning:
		return warnStyle.Render(label)
	default:
		return infoStyle.Render(label)
	}
}

// statusLabel returns the link status name padded to a fixed column
// width, colored unless plain rendering is requested.
func statusLabel(s linkcheck.Status, plain bool) string {
	label := fmt.Sprintf("%-7s", s.String())
	if plain {
		return label
	}
	switch s {
	case linkcheck.StatusOK:
		return okStyle.Render(label)
	case linkcheck.StatusBroken:
		return errStyle.Render(label)
	case linkcheck.StatusErrored:
		return warnStyle.Render(label)
	default:
		return dimStyle.Render(label)
	}
}

func styled(style lipgloss.Style, s string, plain bool) string {
	if plain {
		return s
	}
	return style.Render(s)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
