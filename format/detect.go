// Package format provides input format and Markdown flavor detection for
// the stylemark library.
package format

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned when input is not a Markdown document.
var ErrUnsupported = errors.New("format: not a markdown document")

// Format represents a recognized input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// Markdown indicates a Markdown document.
	Markdown
	// HTML indicates an HTML document.
	HTML
	// PDF indicates a PDF document.
	PDF
	// Binary indicates non-text content.
	Binary
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case HTML:
		return "HTML"
	case PDF:
		return "PDF"
	case Binary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case HTML:
		return ".html"
	case PDF:
		return ".pdf"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown", ".mdown", ".mkd", ".mkdn":
		return Markdown
	case ".html", ".htm":
		return HTML
	case ".pdf":
		return PDF
	default:
		return Unknown
	}
}

// DetectFromMagic inspects leading content bytes to determine format.
// Markdown has no magic number, so text that is not recognizably
// something else is reported as Markdown.
func DetectFromMagic(data []byte) Format {
	if len(data) == 0 {
		return Markdown
	}

	// PDF magic: %PDF
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return PDF
	}
	// ZIP magic: PK\x03\x04 (office containers and archives)
	if bytes.HasPrefix(data, []byte{0x50, 0x4B, 0x03, 0x04}) {
		return Binary
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	// NUL bytes mean binary content.
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	if bytes.IndexByte(probe, 0) >= 0 {
		return Binary
	}
	return Markdown
}

// detectHTMLMagic checks if the data looks like an HTML document.
func detectHTMLMagic(data []byte) bool {
	start := 0
	for start < len(data) && (data[start] == ' ' || data[start] == '\t' || data[start] == '\n' || data[start] == '\r') {
		start++
	}
	if start >= len(data) {
		return false
	}
	data = data[start:]

	upper := strings.ToUpper(string(data[:min(512, len(data))]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<HTML") {
		return true
	}
	if strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML") {
		return true
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
