// Package stylemark provides a fluent API for analyzing, linting, and
// rendering Markdown style guides.
//
// Basic usage:
//
//	res, warnings, err := stylemark.Open("README.md").Lint()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", stylemark.FormatWarnings(warnings))
//	}
//
// With options:
//
//	res, _, err := stylemark.Open("README.md").
//	    Disable("long-lines").
//	    MinSeverity(lint.Warning).
//	    TOCDepth(2).
//	    Lint()
//
// For advanced use cases, the lower-level reader, outline, lint,
// rules, toc, and render packages are also available.
package stylemark

import (
	"fmt"
	"io"

	"github.com/tsawler/stylemark/reader"
)

// Open prepares the guide file at filename and returns an Analyzer for
// fluent configuration. The file is read when a terminal operation
// like Lint or Document runs.
//
// Example:
//
//	doc, warnings, err := stylemark.Open("README.md").Document()
func Open(filename string) *Analyzer {
	return &Analyzer{
		filename: filename,
		options:  defaultAnalyzeOptions(),
	}
}

// FromReader creates an Analyzer from a stream. The source is read
// immediately; a read failure surfaces from the first terminal
// operation. The name is used in reports and for relative link
// resolution.
//
// Example:
//
//	res, warnings, err := stylemark.FromReader(resp.Body, "remote-guide.md").Lint()
func FromReader(r io.Reader, name string) *Analyzer {
	an := &Analyzer{
		name:    name,
		options: defaultAnalyzeOptions(),
	}
	src, err := io.ReadAll(io.LimitReader(r, reader.MaxSize+1))
	if err != nil {
		an.err = fmt.Errorf("failed to read input: %w", err)
		return an
	}
	if len(src) > reader.MaxSize {
		an.err = fmt.Errorf("%s: input too large (limit %d bytes)", name, reader.MaxSize)
		return an
	}
	an.src = src
	return an
}

// FromBytes creates an Analyzer from an in-memory source. The name is
// used in reports and for relative link resolution.
//
// Example:
//
//	stats, _, err := stylemark.FromBytes(src, "guide.md").Stats()
func FromBytes(src []byte, name string) *Analyzer {
	if src == nil {
		// A nil source still means "analyze this", not "open a file".
		src = []byte{}
	}
	return &Analyzer{
		src:     src,
		name:    name,
		options: defaultAnalyzeOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	page := stylemark.Must(render.HTML(doc, render.Options{}))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is a helper that wraps a terminal operation returning
// (T, []Warning, error) and panics if the error is non-nil. It
// discards warnings and returns just the value. It is intended for use
// in scripts or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := stylemark.MustResult(stylemark.Open("README.md").Document())
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
