package reader

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/stylemark/model"
)

// frontmatterEnvelope is the YAML shape accepted at the top of a guide.
// Unknown keys land in Custom.
type frontmatterEnvelope struct {
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Custom      map[string]string `yaml:",inline"`
}

var fenceLine = []byte("---")

// splitFrontmatter separates an optional leading YAML block from the
// body. It returns the raw YAML content, the body, and how many source
// lines the frontmatter occupied including both fences. A document
// without a leading --- fence comes back unchanged.
func splitFrontmatter(src []byte) (yamlContent, body []byte, skipLines int) {
	rest, ok := cutFenceLine(src)
	if !ok {
		return nil, src, 0
	}

	lines := 1
	pos := 0
	for pos < len(rest) {
		var line []byte
		next := 0
		if end := bytes.IndexByte(rest[pos:], '\n'); end < 0 {
			line = rest[pos:]
			next = len(rest)
		} else {
			line = rest[pos : pos+end]
			next = pos + end + 1
		}
		lines++
		if isFenceLine(line) {
			return rest[:pos], rest[next:], lines
		}
		pos = next
	}
	// No closing fence: not frontmatter.
	return nil, src, 0
}

// parseFrontmatter loads metadata from an optional YAML block. The
// returned error reports a malformed block; the body and skipLines are
// valid either way so callers can continue scanning.
func parseFrontmatter(src []byte) (meta model.Metadata, body []byte, skipLines int, err error) {
	meta.Custom = make(map[string]string)
	yamlContent, body, skipLines := splitFrontmatter(src)
	if skipLines == 0 {
		return meta, body, 0, nil
	}

	var env frontmatterEnvelope
	if uerr := yaml.Unmarshal(yamlContent, &env); uerr != nil {
		return meta, body, skipLines, fmt.Errorf("malformed frontmatter: %w", uerr)
	}
	meta.Title = env.Title
	meta.Description = env.Description
	for k, v := range env.Custom {
		meta.Custom[k] = v
	}
	return meta, body, skipLines, nil
}

// cutFenceLine strips a leading --- line and reports whether one was
// present.
func cutFenceLine(src []byte) ([]byte, bool) {
	line, rest := nextLine(src)
	if !isFenceLine(line) {
		return src, false
	}
	if len(line) == len(src) {
		// A lone --- with no newline is a thematic break, not a fence.
		return src, false
	}
	return rest, true
}

func isFenceLine(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, " \r"), fenceLine)
}

// nextLine splits off the first line, excluding its newline.
func nextLine(src []byte) (line, rest []byte) {
	i := bytes.IndexByte(src, '\n')
	if i < 0 {
		return src, nil
	}
	return src[:i], src[i+1:]
}
