package reader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/stylemark/core"
	"github.com/tsawler/stylemark/format"
	"github.com/tsawler/stylemark/model"
)

// MaxSize is the largest document the reader accepts. Style guides are
// text; anything bigger is almost certainly the wrong file.
const MaxSize = 16 << 20

// Warning reports a non-fatal problem encountered while loading.
type Warning struct {
	Message string
	Line    int
}

// Reader loads one Markdown document
type Reader struct {
	name   string
	src    []byte
	flavor format.Flavor
}

// Open opens a guide file and prepares it for reading.
func Open(filename string) (*Reader, error) {
	if f := format.Detect(filename); f != format.Markdown && f != format.Unknown {
		return nil, fmt.Errorf("%s: %w (detected %s)", filename, format.ErrUnsupported, f)
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxSize {
		return nil, fmt.Errorf("%s: file too large (%d bytes, limit %d)", filename, info.Size(), MaxSize)
	}

	src, err := io.ReadAll(io.LimitReader(file, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return newReader(src, filename)
}

// FromReader prepares a document from a stream. The name is used in
// reports and for relative link resolution.
func FromReader(r io.Reader, name string) (*Reader, error) {
	src, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(src) > MaxSize {
		return nil, fmt.Errorf("%s: input too large (limit %d bytes)", name, MaxSize)
	}
	return newReader(src, name)
}

// FromBytes prepares a document from an in-memory source.
func FromBytes(src []byte, name string) (*Reader, error) {
	return newReader(src, name)
}

func newReader(src []byte, name string) (*Reader, error) {
	src = bytes.TrimPrefix(src, []byte("\uFEFF"))
	if f := format.DetectFromMagic(src); f != format.Markdown {
		return nil, fmt.Errorf("%s: %w (content looks like %s)", name, format.ErrUnsupported, f)
	}
	return &Reader{
		name:   name,
		src:    src,
		flavor: format.DetectFlavor(src),
	}, nil
}

// Name returns the document name the reader was opened with.
func (r *Reader) Name() string { return r.name }

// Flavor returns the detected Markdown flavor.
func (r *Reader) Flavor() format.Flavor { return r.flavor }

// Source returns the raw document bytes after BOM stripping.
func (r *Reader) Source() []byte { return r.src }

// Document scans the source and assembles the document model. Section
// tree and TOC detection are left to the outline package.
func (r *Reader) Document() (*model.Document, []Warning, error) {
	var warns []Warning

	meta, body, skip, fmErr := parseFrontmatter(r.src)
	if fmErr != nil {
		warns = append(warns, Warning{Message: fmErr.Error(), Line: 1})
	}

	scanner := core.NewScannerBytes(body)
	doc := model.NewDocument(r.name)
	doc.Source = r.src
	doc.Meta = meta
	doc.Lines = scanner.LineCount() + skip

	slugger := core.NewSlugger(r.flavor.SlugStyle())

	for {
		b, err := scanner.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, warns, fmt.Errorf("failed to scan %s: %w", r.name, err)
		}
		shiftBlock(b, skip)
		doc.Blocks = append(doc.Blocks, b)

		switch b.Type {
		case core.BlockHeading:
			doc.Anchors = append(doc.Anchors, model.Anchor{
				ID:      slugger.Slug(b.Text),
				Heading: b.Text,
				Line:    b.StartLine,
			})
			collectInlines(doc, b.Lines, b.StartLine)
		case core.BlockFencedCode:
			doc.CodeBlocks = append(doc.CodeBlocks, model.CodeBlock{
				Language: b.Language(),
				Info:     b.Info,
				Code:     b.Code,
				Line:     b.StartLine,
				EndLine:  b.EndLine,
				Fenced:   true,
				Closed:   b.Closed,
			})
		case core.BlockIndentedCode:
			doc.CodeBlocks = append(doc.CodeBlocks, model.CodeBlock{
				Code:    b.Code,
				Line:    b.StartLine,
				EndLine: b.EndLine,
				Closed:  true,
			})
		case core.BlockLinkRefDef:
			doc.RefDefs = append(doc.RefDefs, model.RefDef{
				Label: b.Label,
				Dest:  b.Dest,
				Title: b.Title,
				Line:  b.StartLine,
			})
		case core.BlockTable:
			doc.Tables = append(doc.Tables, model.TableFromBlock(b))
			collectInlines(doc, b.Lines, b.StartLine)
		case core.BlockListItem:
			collectItemContent(doc, b)
		case core.BlockParagraph, core.BlockQuote, core.BlockHTML:
			collectInlines(doc, b.Lines, b.StartLine)
		}
	}

	resolveRefLinks(doc)
	return doc, warns, nil
}

// collectInlines scans raw lines for links and anchors and records them
// on the document.
func collectInlines(doc *model.Document, lines []string, startLine int) {
	for i, line := range lines {
		for _, in := range core.ScanInlines(line, startLine+i) {
			recordInline(doc, in)
		}
	}
}

// collectItemContent scans a list item's lines, recording links and
// anchors from the prose and recording fenced code opened inside the
// item as document code blocks. Nested examples reach the model the
// same way top-level fences do, so line masks and fence checks see
// code under bullets. Code lines are never scanned for links.
func collectItemContent(doc *model.Document, b *core.Block) {
	var cb *model.CodeBlock
	var marker byte
	markerLen := 0
	indent := 0
	for i, line := range b.Lines {
		n := b.StartLine + i
		if cb != nil {
			if fenceClosesStripped(line, marker, markerLen) {
				cb.EndLine = n
				cb.Closed = true
				doc.CodeBlocks = append(doc.CodeBlocks, *cb)
				cb = nil
				continue
			}
			cb.Code = append(cb.Code, cutItemIndent(line, indent))
			continue
		}
		if _, m, ml, info, ok := fenceOpensStripped(line); ok && i > 0 {
			cb = &model.CodeBlock{
				Language: infoLanguage(info),
				Info:     info,
				Line:     n,
				Fenced:   true,
			}
			marker = m
			markerLen = ml
			indent = itemIndentWidth(line)
			continue
		}
		for _, in := range core.ScanInlines(line, n) {
			recordInline(doc, in)
		}
	}
	if cb != nil {
		cb.EndLine = b.EndLine
		doc.CodeBlocks = append(doc.CodeBlocks, *cb)
	}
}

func recordInline(doc *model.Document, in core.Inline) {
	switch in.Kind {
	case core.InlineLink:
		doc.Links = append(doc.Links, model.Link{
			Text:  in.Text,
			Dest:  in.Dest,
			Title: in.Title,
			Kind:  model.ClassifyDest(in.Dest),
			Line:  in.Line,
			Col:   in.Col,
		})
	case core.InlineImage:
		if in.Label != "" {
			doc.RefLinks = append(doc.RefLinks, model.RefLink{
				Text:  in.Text,
				Label: in.Label,
				Line:  in.Line,
				Col:   in.Col,
			})
			return
		}
		doc.Links = append(doc.Links, model.Link{
			Text:  in.Text,
			Dest:  in.Dest,
			Title: in.Title,
			Kind:  model.ClassifyDest(in.Dest),
			Image: true,
			Line:  in.Line,
			Col:   in.Col,
		})
	case core.InlineAutolink:
		doc.Links = append(doc.Links, model.Link{
			Text: in.Text,
			Dest: in.Dest,
			Kind: model.ClassifyDest(in.Dest),
			Line: in.Line,
			Col:  in.Col,
		})
	case core.InlineRefLink:
		doc.RefLinks = append(doc.RefLinks, model.RefLink{
			Text:  in.Text,
			Label: in.Label,
			Line:  in.Line,
			Col:   in.Col,
		})
	case core.InlineHTMLAnchor:
		doc.Anchors = append(doc.Anchors, model.Anchor{
			ID:       in.Dest,
			Line:     in.Line,
			Explicit: true,
		})
	}
}

// resolveRefLinks turns reference links with known definitions into
// resolved links so destination checks cover them too.
func resolveRefLinks(doc *model.Document) {
	for _, ref := range doc.RefLinks {
		def, ok := doc.RefDefByLabel(ref.Label)
		if !ok {
			continue // lint reports undefined labels
		}
		doc.Links = append(doc.Links, model.Link{
			Text:  ref.Text,
			Dest:  def.Dest,
			Title: def.Title,
			Kind:  model.ClassifyDest(def.Dest),
			Line:  ref.Line,
			Col:   ref.Col,
		})
	}
}

// shiftBlock moves a block's line numbers down by off lines to account
// for stripped frontmatter.
func shiftBlock(b *core.Block, off int) {
	if off == 0 {
		return
	}
	b.StartLine += off
	b.EndLine += off
}

// fenceOpensStripped checks a list continuation line for a fence opener
// after removing leading indentation.
func fenceOpensStripped(line string) (int, byte, int, string, bool) {
	return core.FenceOpen(trimItemIndent(line))
}

// fenceClosesStripped checks a list continuation line for a fence close.
func fenceClosesStripped(line string, marker byte, markerLen int) bool {
	return core.FenceCloses(trimItemIndent(line), marker, markerLen)
}

// trimItemIndent drops leading spaces and tabs from a continuation line.
func trimItemIndent(line string) string {
	return line[itemIndentWidth(line):]
}

// itemIndentWidth returns the number of leading space and tab bytes.
func itemIndentWidth(line string) int {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

// cutItemIndent removes up to width leading space or tab bytes, keeping
// deeper indentation inside nested code.
func cutItemIndent(line string, width int) string {
	i := 0
	for i < len(line) && i < width && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

// infoLanguage returns the first word of a fence info string.
func infoLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
