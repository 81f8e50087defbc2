package stylemark

import (
	"fmt"
	"strings"
)

// WarningType classifies a non-fatal problem found while loading or
// analyzing a document.
type WarningType int

const (
	// WarnGeneric is a warning with no more specific classification.
	WarnGeneric WarningType = iota

	// WarnFrontmatter means the document opened with a frontmatter
	// fence whose YAML could not be parsed. The frontmatter was
	// skipped and analysis continued on the body.
	WarnFrontmatter

	// WarnUnclosedFence means a fenced code block was never
	// terminated. The scanner recovered by closing it at end of
	// input, so line numbers after the fence remain reliable, but
	// everything below the opener was treated as code.
	WarnUnclosedFence

	// WarnSetextHeading means a heading was written with a ---
	// underline, which also reads as a thematic break or frontmatter
	// fence. The line was kept as a heading.
	WarnSetextHeading

	// WarnOversized means the document is far larger than any style
	// guide in the wild. Analysis ran in full but may be slow.
	WarnOversized

	// WarnUnknownCheck means a check id passed to Checks or Disable
	// matched no registered check. The id was ignored.
	WarnUnknownCheck
)

// String returns the stable name of the warning type.
func (t WarningType) String() string {
	switch t {
	case WarnFrontmatter:
		return "frontmatter"
	case WarnUnclosedFence:
		return "unclosed-fence"
	case WarnSetextHeading:
		return "setext-heading"
	case WarnOversized:
		return "oversized"
	case WarnUnknownCheck:
		return "unknown-check"
	default:
		return "generic"
	}
}

// Warning reports a non-fatal issue encountered during a terminal
// operation. Warnings never stop analysis; they flag places where the
// result may not mean what the document's author intended.
type Warning struct {
	// Type classifies the warning.
	Type WarningType

	// Message is a human-readable description.
	Message string

	// Line is the 1-based source line the warning refers to, or 0
	// when it applies to the document as a whole.
	Line int
}

// String formats the warning as "type: message (line N)".
func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s: %s (line %d)", w.Type, w.Message, w.Line)
	}
	return fmt.Sprintf("%s: %s", w.Type, w.Message)
}

// FormatWarnings joins warnings into a single string, one per line.
// It returns "" for an empty slice.
//
// Example:
//
//	doc, warnings, err := stylemark.Open("README.md").Document()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:\n" + stylemark.FormatWarnings(warnings))
//	}
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
