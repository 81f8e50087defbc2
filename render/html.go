package render

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/stylemark/core"
	"github.com/tsawler/stylemark/model"
)

// Options configures HTML output.
type Options struct {
	// Title overrides the page title. Empty uses the document's own.
	Title string

	// Styles is the CSS embedded in the page head. Default: DefaultCSS.
	Styles string

	// NumberSections prefixes headings with hierarchical numbers.
	// Default: false.
	NumberSections bool
}

// DefaultOptions returns options with the built-in stylesheet.
func DefaultOptions() Options {
	return Options{Styles: DefaultCSS}
}

// HTML renders the document as a standalone page: embedded styles, a
// nav sidebar built from the section tree, and headings carrying their
// anchors as element IDs.
func HTML(doc *model.Document, opts Options) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}
	if opts.Styles == "" {
		opts.Styles = DefaultCSS
	}
	title := opts.Title
	if title == "" {
		title = doc.Title()
	}

	r := &htmlRenderer{
		ctx:    &spanContext{refs: refMap(doc)},
		number: opts.NumberSections,
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", esc(title))
	fmt.Fprintf(&b, "<style>\n%s</style>\n", opts.Styles)
	b.WriteString("</head>\n<body>\n")

	r.writeNav(&b, doc.Sections)

	b.WriteString("<main>\n")
	// With a single top-level heading the document title stays
	// unnumbered and its children count from 1.
	single := len(doc.Sections) == 1
	n := 0
	for _, sec := range doc.Sections {
		num, prefix := "", ""
		if r.number && !single && !isContents(sec.Anchor) {
			n++
			num = strconv.Itoa(n) + "."
			prefix = num
		}
		r.writeSection(&b, sec, num, prefix)
	}
	b.WriteString("</main>\n</body>\n</html>\n")
	return b.String(), nil
}

type htmlRenderer struct {
	ctx    *spanContext
	number bool
}

func (r *htmlRenderer) inline(b *strings.Builder, s string) {
	appendInline(b, s, r.ctx)
}

func (r *htmlRenderer) writeNav(b *strings.Builder, secs []*model.Section) {
	if len(secs) == 0 {
		return
	}
	b.WriteString("<nav class=\"toc\">\n")
	r.writeNavList(b, secs)
	b.WriteString("</nav>\n")
}

func (r *htmlRenderer) writeNavList(b *strings.Builder, secs []*model.Section) {
	visible := make([]*model.Section, 0, len(secs))
	for _, s := range secs {
		if !isContents(s.Anchor) {
			visible = append(visible, s)
		}
	}
	if len(visible) == 0 {
		return
	}
	b.WriteString("<ul>\n")
	for _, s := range visible {
		fmt.Fprintf(b, "<li><a href=\"#%s\">%s</a>", esc(s.Anchor), esc(plainText(s.Heading)))
		if len(s.Children) > 0 {
			b.WriteByte('\n')
			r.writeNavList(b, s.Children)
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n")
}

func (r *htmlRenderer) writeSection(b *strings.Builder, sec *model.Section, num, prefix string) {
	level := sec.Level
	if level > 6 {
		level = 6
	}
	if sec.Anchor != "" {
		fmt.Fprintf(b, "<h%d id=\"%s\">", level, esc(sec.Anchor))
	} else {
		fmt.Fprintf(b, "<h%d>", level)
	}
	if num != "" {
		fmt.Fprintf(b, "<span class=\"secnum\">%s</span> ", num)
	}
	r.inline(b, sec.Heading)
	fmt.Fprintf(b, "</h%d>\n", level)

	r.writeBlocks(b, sec.Blocks)

	n := 0
	for _, child := range sec.Children {
		cnum, cprefix := "", ""
		if r.number && !isContents(child.Anchor) {
			n++
			cnum = prefix + strconv.Itoa(n) + "."
			cprefix = cnum
		}
		r.writeSection(b, child, cnum, cprefix)
	}
}

func (r *htmlRenderer) writeBlocks(b *strings.Builder, blocks []*core.Block) {
	i := 0
	for i < len(blocks) {
		if blocks[i].Type == core.BlockListItem {
			j := i
			for j < len(blocks) && blocks[j].Type == core.BlockListItem {
				j++
			}
			r.writeList(b, blocks[i:j])
			i = j
			continue
		}
		r.writeBlock(b, blocks[i])
		i++
	}
}

func (r *htmlRenderer) writeBlock(b *strings.Builder, blk *core.Block) {
	switch blk.Type {
	case core.BlockParagraph:
		b.WriteString("<p>")
		r.inline(b, strings.Join(blk.Lines, "\n"))
		b.WriteString("</p>\n")
	case core.BlockFencedCode:
		r.writeCode(b, blk.Language(), strings.Join(blk.Code, "\n"))
	case core.BlockIndentedCode:
		r.writeCode(b, "", strings.Join(blk.Code, "\n"))
	case core.BlockQuote:
		b.WriteString("<blockquote>\n")
		for _, para := range splitParagraphs(blk.Text) {
			b.WriteString("<p>")
			r.inline(b, para)
			b.WriteString("</p>\n")
		}
		b.WriteString("</blockquote>\n")
	case core.BlockTable:
		r.writeTable(b, blk)
	case core.BlockThematicBreak:
		b.WriteString("<hr>\n")
	case core.BlockHTML:
		r.writeHTMLBlock(b, strings.Join(blk.Lines, "\n"))
	case core.BlockLinkRefDef:
		// definitions render nothing
	}
}

func (r *htmlRenderer) writeCode(b *strings.Builder, lang, code string) {
	if lang != "" {
		fmt.Fprintf(b, "<pre><code class=\"language-%s\">", esc(lang))
	} else {
		b.WriteString("<pre><code>")
	}
	b.WriteString(esc(code))
	b.WriteString("\n</code></pre>\n")
}

// writeList emits consecutive list item blocks as nested lists, using
// each item's indent to decide nesting depth.
func (r *htmlRenderer) writeList(b *strings.Builder, items []*core.Block) {
	type frame struct {
		indent  int
		ordered bool
		liOpen  bool
	}
	var stack []frame

	open := func(it *core.Block) {
		if it.Ordered {
			b.WriteString("<ol>\n")
		} else {
			b.WriteString("<ul>\n")
		}
		stack = append(stack, frame{indent: it.Indent, ordered: it.Ordered})
	}
	closeTop := func() {
		top := &stack[len(stack)-1]
		if top.liOpen {
			b.WriteString("</li>\n")
		}
		if top.ordered {
			b.WriteString("</ol>\n")
		} else {
			b.WriteString("</ul>\n")
		}
		stack = stack[:len(stack)-1]
	}

	for _, it := range items {
		switch {
		case len(stack) == 0:
			open(it)
		case it.Indent > stack[len(stack)-1].indent:
			b.WriteByte('\n')
			open(it)
		default:
			for len(stack) > 1 && it.Indent < stack[len(stack)-1].indent {
				closeTop()
			}
			if stack[len(stack)-1].ordered != it.Ordered {
				closeTop()
				open(it)
			}
		}
		top := &stack[len(stack)-1]
		if top.liOpen {
			b.WriteString("</li>\n")
		}
		b.WriteString("<li>")
		r.writeItem(b, it)
		top.liOpen = true
	}
	for len(stack) > 0 {
		closeTop()
	}
}

// writeItem emits one item's text and any code fence embedded in its
// continuation lines.
func (r *htmlRenderer) writeItem(b *strings.Builder, it *core.Block) {
	r.inline(b, it.Text)
	lines := it.Lines
	i := 1
	for i < len(lines) {
		trimmed, width := itemStrip(lines[i])
		if _, marker, mlen, info, ok := core.FenceOpen(trimmed); ok {
			var code []string
			j := i + 1
			for j < len(lines) {
				t, _ := itemStrip(lines[j])
				if core.FenceCloses(t, marker, mlen) {
					break
				}
				code = append(code, itemCut(lines[j], width))
				j++
			}
			b.WriteByte('\n')
			r.writeCode(b, languageOf(info), strings.Join(code, "\n"))
			if j < len(lines) {
				j++
			}
			i = j
			continue
		}
		if t := strings.TrimSpace(lines[i]); t != "" {
			b.WriteByte('\n')
			r.inline(b, t)
		}
		i++
	}
}

func (r *htmlRenderer) writeTable(b *strings.Builder, blk *core.Block) {
	if len(blk.Rows) == 0 {
		return
	}
	b.WriteString("<table>\n<thead>\n<tr>")
	for i, cell := range blk.Rows[0] {
		r.writeCell(b, "th", cell, cellAlign(blk.Aligns, i))
	}
	b.WriteString("</tr>\n</thead>\n")
	if len(blk.Rows) > 1 {
		b.WriteString("<tbody>\n")
		for _, row := range blk.Rows[1:] {
			b.WriteString("<tr>")
			for i, cell := range row {
				r.writeCell(b, "td", cell, cellAlign(blk.Aligns, i))
			}
			b.WriteString("</tr>\n")
		}
		b.WriteString("</tbody>\n")
	}
	b.WriteString("</table>\n")
}

func (r *htmlRenderer) writeCell(b *strings.Builder, tag, text string, a core.Alignment) {
	if a == core.AlignNone {
		fmt.Fprintf(b, "<%s>", tag)
	} else {
		fmt.Fprintf(b, "<%s style=\"text-align: %s\">", tag, alignName(a))
	}
	r.inline(b, text)
	fmt.Fprintf(b, "</%s>", tag)
}

// writeHTMLBlock parses a raw HTML block and re-emits only its explicit
// anchors and its text content, the text with span-level treatment so
// kramdown-style link-backs still render.
func (r *htmlRenderer) writeHTMLBlock(b *strings.Builder, src string) {
	node, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return
	}
	var anchors []string
	var text strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "name" || attr.Key == "id" {
					anchors = append(anchors, attr.Val)
				}
			}
		}
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)

	for _, id := range anchors {
		fmt.Fprintf(b, "<a id=\"%s\"></a>\n", esc(id))
	}
	if t := strings.TrimSpace(text.String()); t != "" {
		b.WriteString("<p>")
		r.inline(b, t)
		b.WriteString("</p>\n")
	}
}

func refMap(doc *model.Document) map[string]string {
	if doc == nil || len(doc.RefDefs) == 0 {
		return nil
	}
	refs := make(map[string]string, len(doc.RefDefs))
	for _, d := range doc.RefDefs {
		key := strings.ToLower(d.Label)
		if _, ok := refs[key]; !ok {
			refs[key] = d.Dest
		}
	}
	return refs
}

func isContents(anchor string) bool {
	return strings.Contains(anchor, "contents")
}

func splitParagraphs(text string) []string {
	var out []string
	var cur []string
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) == "" {
			if len(cur) > 0 {
				out = append(out, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, ln)
	}
	if len(cur) > 0 {
		out = append(out, strings.Join(cur, "\n"))
	}
	return out
}

func languageOf(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func cellAlign(aligns []core.Alignment, i int) core.Alignment {
	if i < len(aligns) {
		return aligns[i]
	}
	return core.AlignNone
}

func alignName(a core.Alignment) string {
	switch a {
	case core.AlignCenter:
		return "center"
	case core.AlignRight:
		return "right"
	default:
		return "left"
	}
}

func itemStrip(line string) (string, int) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:], i
}

func itemCut(line string, width int) string {
	i := 0
	for i < len(line) && i < width && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[i:]
}

// DefaultCSS is the stylesheet embedded when Options.Styles is empty.
const DefaultCSS = `:root { --accent: #2a6dbd; }
body { font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; line-height: 1.6; color: #24292f; margin: 0; }
main { max-width: 48rem; padding: 2rem; margin-left: 20rem; }
nav.toc { position: fixed; top: 0; bottom: 0; width: 18rem; overflow-y: auto; padding: 2rem 1rem; border-right: 1px solid #d8dee4; font-size: 0.9rem; }
nav.toc ul { list-style: none; padding-left: 1rem; margin: 0; }
nav.toc a { text-decoration: none; color: inherit; }
nav.toc a:hover { color: var(--accent); }
h1, h2, h3 { border-bottom: 1px solid #eef1f4; padding-bottom: 0.3rem; }
.secnum { color: #6e7781; margin-right: 0.25rem; }
a { color: var(--accent); }
pre { background: #f6f8fa; padding: 1rem; overflow-x: auto; border-radius: 6px; }
code { font-family: "SFMono-Regular", Consolas, Menlo, monospace; font-size: 0.9em; }
p > code, li > code { background: #f6f8fa; padding: 0.1em 0.3em; border-radius: 4px; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d8dee4; padding: 0.4rem 0.8rem; }
blockquote { border-left: 4px solid #d8dee4; margin-left: 0; padding-left: 1rem; color: #57606a; }
@media (max-width: 60rem) {
  nav.toc { position: static; width: auto; bottom: auto; border-right: 0; }
  main { margin-left: 0; }
}
`
