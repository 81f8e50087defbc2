package lint

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/stylemark/model"
	"github.com/tsawler/stylemark/reader"
)

// RelativeFilesCheck verifies that relative link targets exist on disk,
// resolved against the document's directory (or a configured base).
type RelativeFilesCheck struct {
	baseDir string
}

// NewRelativeFilesCheck creates the relative-files check.
func NewRelativeFilesCheck(config Config) *RelativeFilesCheck {
	return &RelativeFilesCheck{baseDir: config.BaseDir}
}

// ID returns "relative-files".
func (c *RelativeFilesCheck) ID() string { return "relative-files" }

// Description returns a one-line description.
func (c *RelativeFilesCheck) Description() string {
	return "relative link targets exist on disk"
}

// Run reports an Error for each relative link whose target file is
// missing. Fragments and query strings are stripped before resolving.
func (c *RelativeFilesCheck) Run(doc *model.Document) []Finding {
	dir := linkDir(c.baseDir, doc)
	var out []Finding
	for _, l := range doc.RelativeLinks() {
		target := linkTarget(l.Dest)
		if target == "" {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(target))
		if _, err := os.Stat(path); err != nil {
			out = append(out, Finding{
				Severity: Error,
				Line:     l.Line,
				Message:  fmt.Sprintf("relative link %q: no such file", l.Dest),
			})
		}
	}
	return out
}

// ImageFilesCheck verifies that local images actually decode as images.
// Missing files are left to relative-files.
type ImageFilesCheck struct {
	baseDir string
}

// NewImageFilesCheck creates the image-files check.
func NewImageFilesCheck(config Config) *ImageFilesCheck {
	return &ImageFilesCheck{baseDir: config.BaseDir}
}

// ID returns "image-files".
func (c *ImageFilesCheck) ID() string { return "image-files" }

// Description returns a one-line description.
func (c *ImageFilesCheck) Description() string {
	return "local images decode"
}

// Run reports a Warning for each local image file that exists but does
// not decode with a registered image format.
func (c *ImageFilesCheck) Run(doc *model.Document) []Finding {
	dir := linkDir(c.baseDir, doc)
	var out []Finding
	for _, l := range doc.Images() {
		if l.Kind != model.KindRelative {
			continue
		}
		target := linkTarget(l.Dest)
		if target == "" {
			continue
		}
		path := filepath.Join(dir, filepath.FromSlash(target))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := reader.ProbeImage(dir, target); err != nil {
			out = append(out, Finding{
				Severity: Warning,
				Line:     l.Line,
				Message:  fmt.Sprintf("image %q does not decode: %v", l.Dest, err),
			})
		}
	}
	return out
}

// linkDir returns the directory relative links resolve against.
func linkDir(baseDir string, doc *model.Document) string {
	if baseDir != "" {
		return baseDir
	}
	return filepath.Dir(doc.Path)
}

// linkTarget strips the fragment and query from a destination and
// unescapes percent encoding.
func linkTarget(dest string) string {
	target, _, _ := strings.Cut(dest, "#")
	target, _, _ = strings.Cut(target, "?")
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}
	return target
}
