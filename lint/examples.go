package lint

import (
	"strings"

	"github.com/tsawler/stylemark/model"
)

// ExamplePairsCheck verifies that a code block showing a bad example
// also shows the good alternative after it. Style guides lean on the
// pairing; a lone "# bad" reads like an endorsement.
type ExamplePairsCheck struct {
	bad      []string
	good     []string
	prefixes []string
}

// NewExamplePairsCheck creates the example-pairs check.
func NewExamplePairsCheck(config Config) *ExamplePairsCheck {
	return &ExamplePairsCheck{
		bad:      lowerAll(config.BadMarkers),
		good:     lowerAll(config.GoodMarkers),
		prefixes: config.CommentPrefixes,
	}
}

// ID returns "example-pairs".
func (c *ExamplePairsCheck) ID() string { return "example-pairs" }

// Description returns a one-line description.
func (c *ExamplePairsCheck) Description() string {
	return "bad example markers are followed by good ones"
}

// Run reports a Warning at the last bad marker of each code block that
// never answers it with a good marker. Good-only blocks are fine.
func (c *ExamplePairsCheck) Run(doc *model.Document) []Finding {
	var out []Finding
	for _, cb := range doc.CodeBlocks {
		offset := 0
		if cb.Fenced {
			offset = 1 // opening fence line
		}
		for i := len(cb.Code) - 1; i >= 0; i-- {
			kind := c.markerKind(cb.Code[i])
			if kind == "good" {
				break
			}
			if kind == "bad" {
				out = append(out, Finding{
					Severity: Warning,
					Line:     cb.Line + offset + i,
					Message:  "bad example has no good example after it",
				})
				break
			}
		}
	}
	return out
}

// markerKind classifies a code line as a "bad" marker, a "good" marker
// or neither. A marker is a comment whose first word, stripped of
// trailing punctuation, matches a configured marker word.
func (c *ExamplePairsCheck) markerKind(line string) string {
	s := strings.TrimSpace(line)
	for _, p := range c.prefixes {
		if !strings.HasPrefix(s, p) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(s, p))
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return ""
		}
		word := strings.ToLower(strings.Trim(fields[0], ":.,!"))
		for _, b := range c.bad {
			if word == b {
				return "bad"
			}
		}
		for _, g := range c.good {
			if word == g {
				return "good"
			}
		}
		return ""
	}
	return ""
}

func lowerAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToLower(w)
	}
	return out
}
