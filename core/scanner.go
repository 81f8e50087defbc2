package core

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// BlockType represents the type of block
type BlockType int

const (
	BlockBlank BlockType = iota
	BlockHeading
	BlockParagraph
	BlockFencedCode
	BlockIndentedCode
	BlockListItem
	BlockQuote
	BlockTable
	BlockThematicBreak
	BlockHTML
	BlockLinkRefDef
)

// String returns a human-readable name for the block type.
func (t BlockType) String() string {
	switch t {
	case BlockBlank:
		return "blank"
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockFencedCode:
		return "fenced code"
	case BlockIndentedCode:
		return "indented code"
	case BlockListItem:
		return "list item"
	case BlockQuote:
		return "blockquote"
	case BlockTable:
		return "table"
	case BlockThematicBreak:
		return "thematic break"
	case BlockHTML:
		return "html"
	case BlockLinkRefDef:
		return "link reference definition"
	default:
		return "unknown"
	}
}

// Alignment represents a table column alignment from the delimiter row.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Block represents one structural element of a document.
//
// StartLine and EndLine are 1-based and inclusive. Lines always holds the
// raw source lines of the block, fence markers and list bullets included.
// The remaining fields are populated per type.
type Block struct {
	Type      BlockType
	StartLine int
	EndLine   int
	Lines     []string

	// Heading
	Level  int
	Text   string
	Setext bool

	// Fenced code
	Marker    byte
	MarkerLen int
	Info      string
	Indent    int
	Closed    bool
	Code      []string

	// List item
	Ordered    bool
	ListMarker string

	// Link reference definition
	Label string
	Dest  string
	Title string

	// Table
	Rows   [][]string
	Aligns []Alignment
}

// Language returns the first word of a fenced block's info string.
func (b *Block) Language() string {
	if b.Type != BlockFencedCode || b.Info == "" {
		return ""
	}
	fields := strings.Fields(b.Info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Scanner performs block-level scanning of Markdown input.
//
// Input is normalized up front: a UTF-8 BOM is stripped and CRLF line
// endings become LF. Next returns blocks in source order and io.EOF when
// the input is exhausted.
type Scanner struct {
	lines []string
	idx   int // 0-based index of the next unread line
}

// NewScanner creates a scanner over r.
func NewScanner(r io.Reader) (*Scanner, error) {
	var lines []string
	br := bufio.NewReader(r)
	first := true
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if first {
				line = strings.TrimPrefix(line, "\uFEFF")
				first = false
			}
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			lines = append(lines, line)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return &Scanner{lines: lines}, nil
}

// NewScannerBytes creates a scanner over src.
func NewScannerBytes(src []byte) *Scanner {
	s, _ := NewScanner(bytes.NewReader(src)) // reading from memory cannot fail
	return s
}

// LineCount returns the total number of source lines.
func (s *Scanner) LineCount() int {
	return len(s.lines)
}

// Line returns the raw source line at 1-based number n.
func (s *Scanner) Line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

// Next returns the next block from the input, or io.EOF when done.
func (s *Scanner) Next() (*Block, error) {
	if s.idx >= len(s.lines) {
		return nil, io.EOF
	}

	line := s.lines[s.idx]

	if isBlankLine(line) {
		return s.readBlankRun(), nil
	}
	if indent, marker, markerLen, info, ok := fenceOpen(line); ok {
		return s.readFencedCode(indent, marker, markerLen, info), nil
	}
	if level, text, ok := atxHeading(line); ok {
		return s.readATXHeading(level, text), nil
	}
	if isBlockQuoteLine(line) {
		return s.readBlockQuote(), nil
	}
	if ordered, marker, contentCol, ok := listMarker(line); ok {
		return s.readListItem(ordered, marker, contentCol), nil
	}
	if s.isTableStart() {
		return s.readTable(), nil
	}
	if label, dest, title, ok := linkRefDef(line); ok {
		return s.readLinkRefDef(label, dest, title), nil
	}
	if isThematicBreak(line) {
		return s.readThematicBreak(), nil
	}
	if isHTMLBlockStart(line) {
		return s.readHTMLBlock(), nil
	}
	if isIndentedCodeLine(line) {
		return s.readIndentedCode(), nil
	}
	return s.readParagraph(), nil
}

// readBlankRun consumes a run of blank lines as a single block.
func (s *Scanner) readBlankRun() *Block {
	start := s.idx
	for s.idx < len(s.lines) && isBlankLine(s.lines[s.idx]) {
		s.idx++
	}
	return &Block{
		Type:      BlockBlank,
		StartLine: start + 1,
		EndLine:   s.idx,
		Lines:     s.lines[start:s.idx],
	}
}

// readFencedCode consumes a fenced code block. A fence left open at EOF
// is returned with Closed=false so callers can report it.
func (s *Scanner) readFencedCode(indent int, marker byte, markerLen int, info string) *Block {
	start := s.idx
	s.idx++ // opening fence

	var code []string
	closed := false
	for s.idx < len(s.lines) {
		line := s.lines[s.idx]
		if fenceCloses(line, marker, markerLen) {
			s.idx++
			closed = true
			break
		}
		code = append(code, stripIndent(line, indent))
		s.idx++
	}

	return &Block{
		Type:      BlockFencedCode,
		StartLine: start + 1,
		EndLine:   s.idx,
		Lines:     s.lines[start:s.idx],
		Marker:    marker,
		MarkerLen: markerLen,
		Info:      info,
		Indent:    indent,
		Closed:    closed,
		Code:      code,
	}
}

// readATXHeading consumes a single # heading line.
func (s *Scanner) readATXHeading(level int, text string) *Block {
	start := s.idx
	s.idx++
	return &Block{
		Type:      BlockHeading,
		StartLine: start + 1,
		EndLine:   start + 1,
		Lines:     s.lines[start : start+1],
		Level:     level,
		Text:      text,
	}
}

// readBlockQuote consumes consecutive > lines.
func (s *Scanner) readBlockQuote() *Block {
	start := s.idx
	var stripped []string
	for s.idx < len(s.lines) && isBlockQuoteLine(s.lines[s.idx]) {
		stripped = append(stripped, stripBlockQuote(s.lines[s.idx]))
		s.idx++
	}
	return &Block{
		Type:      BlockQuote,
		StartLine: start + 1,
		EndLine:   s.idx,
		Lines:     s.lines[start:s.idx],
		Text:      strings.Join(stripped, "\n"),
	}
}

// readListItem consumes one list item: its marker line plus continuation
// lines indented to the item's content column. A fence opened inside the
// item is consumed through its close even across blank lines, so code
// examples nested under bullets stay inside the item.
func (s *Scanner) readListItem(ordered bool, marker string, contentBytes int) *Block {
	start := s.idx
	first := s.lines[s.idx]
	text := ""
	if contentBytes <= len(first) {
		text = strings.TrimSpace(first[contentBytes:])
	}
	contentCol := columnWidth(first[:contentBytes])
	s.idx++

	var fenceMarker byte
	fenceLen := 0
	inFence := false
	for s.idx < len(s.lines) {
		line := s.lines[s.idx]
		if inFence {
			if fenceCloses(stripIndent(line, contentCol), fenceMarker, fenceLen) {
				inFence = false
			}
			s.idx++
			continue
		}
		if isBlankLine(line) {
			break
		}
		if _, _, _, ok := listMarker(line); ok {
			break
		}
		if leadingIndent(line) < contentCol {
			break
		}
		if _, m, ml, _, ok := fenceOpen(stripIndent(line, contentCol)); ok {
			inFence = true
			fenceMarker = m
			fenceLen = ml
		}
		s.idx++
	}

	return &Block{
		Type:       BlockListItem,
		StartLine:  start + 1,
		EndLine:    s.idx,
		Lines:      s.lines[start:s.idx],
		Ordered:    ordered,
		ListMarker: marker,
		Indent:     leadingIndent(first),
		Text:       text,
	}
}

// isTableStart reports whether the current line begins a pipe table:
// a row containing | followed by a valid delimiter row.
func (s *Scanner) isTableStart() bool {
	if s.idx+1 >= len(s.lines) {
		return false
	}
	if !strings.Contains(s.lines[s.idx], "|") {
		return false
	}
	_, ok := parseDelimiterRow(s.lines[s.idx+1])
	return ok
}

// readTable consumes a pipe table: header row, delimiter row, and body
// rows until a blank or pipe-free line.
func (s *Scanner) readTable() *Block {
	start := s.idx
	header := splitTableRow(s.lines[s.idx])
	s.idx++
	aligns, _ := parseDelimiterRow(s.lines[s.idx])
	s.idx++

	rows := [][]string{header}
	for s.idx < len(s.lines) {
		line := s.lines[s.idx]
		if isBlankLine(line) || !strings.Contains(line, "|") {
			break
		}
		rows = append(rows, splitTableRow(line))
		s.idx++
	}

	return &Block{
		Type:      BlockTable,
		StartLine: start + 1,
		EndLine:   s.idx,
		Lines:     s.lines[start:s.idx],
		Rows:      rows,
		Aligns:    aligns,
	}
}

// readLinkRefDef consumes a [label]: destination line.
func (s *Scanner) readLinkRefDef(label, dest, title string) *Block {
	start := s.idx
	s.idx++
	return &Block{
		Type:      BlockLinkRefDef,
		StartLine: start + 1,
		EndLine:   start + 1,
		Lines:     s.lines[start : start+1],
		Label:     label,
		Dest:      dest,
		Title:     title,
	}
}

// readThematicBreak consumes a horizontal rule line.
func (s *Scanner) readThematicBreak() *Block {
	start := s.idx
	s.idx++
	return &Block{
		Type:      BlockThematicBreak,
		StartLine: start + 1,
		EndLine:   start + 1,
		Lines:     s.lines[start : start+1],
	}
}

// readHTMLBlock consumes raw HTML lines until a blank line.
func (s *Scanner) readHTMLBlock() *Block {
	start := s.idx
	for s.idx < len(s.lines) && !isBlankLine(s.lines[s.idx]) {
		s.idx++
	}
	return &Block{
		Type:      BlockHTML,
		StartLine: start + 1,
		EndLine:   s.idx,
		Lines:     s.lines[start:s.idx],
		Text:      strings.Join(s.lines[start:s.idx], "\n"),
	}
}

// readIndentedCode consumes a run of 4-space indented lines. Blank lines
// inside the run are kept; trailing blanks are left for the next block.
func (s *Scanner) readIndentedCode() *Block {
	start := s.idx
	var code []string
	last := s.idx // last non-blank code line consumed
	for s.idx < len(s.lines) {
		line := s.lines[s.idx]
		if isIndentedCodeLine(line) {
			code = append(code, stripIndent(line, 4))
			s.idx++
			last = s.idx
			continue
		}
		if isBlankLine(line) && s.idx+1 < len(s.lines) && isIndentedCodeLine(s.lines[s.idx+1]) {
			code = append(code, "")
			s.idx++
			continue
		}
		break
	}
	s.idx = last
	return &Block{
		Type:      BlockIndentedCode,
		StartLine: start + 1,
		EndLine:   s.idx,
		Lines:     s.lines[start:s.idx],
		Code:      code,
	}
}

// readParagraph consumes plain text lines until a blank line or the start
// of another block. A setext underline closes the paragraph as a heading.
func (s *Scanner) readParagraph() *Block {
	start := s.idx
	var text []string
	for s.idx < len(s.lines) {
		line := s.lines[s.idx]
		if len(text) > 0 {
			if level, ok := setextUnderline(line); ok {
				s.idx++
				return &Block{
					Type:      BlockHeading,
					StartLine: start + 1,
					EndLine:   s.idx,
					Lines:     s.lines[start:s.idx],
					Level:     level,
					Text:      strings.TrimSpace(strings.Join(text, " ")),
					Setext:    true,
				}
			}
		}
		if isBlankLine(line) || paragraphBreaks(line) {
			break
		}
		text = append(text, strings.TrimSpace(line))
		s.idx++
	}
	return &Block{
		Type:      BlockParagraph,
		StartLine: start + 1,
		EndLine:   s.idx,
		Lines:     s.lines[start:s.idx],
		Text:      strings.Join(text, "\n"),
	}
}

// paragraphBreaks reports whether line interrupts an open paragraph.
func paragraphBreaks(line string) bool {
	if _, _, _, _, ok := fenceOpen(line); ok {
		return true
	}
	if _, _, ok := atxHeading(line); ok {
		return true
	}
	if isBlockQuoteLine(line) {
		return true
	}
	if _, _, _, ok := listMarker(line); ok {
		return true
	}
	if isThematicBreak(line) {
		return true
	}
	if isHTMLBlockStart(line) {
		return true
	}
	return false
}

// Line classifiers

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}

// leadingIndent returns the width of a line's leading whitespace with
// tabs expanded to 4-column stops.
func leadingIndent(line string) int {
	n := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			n++
		case '\t':
			n += 4 - n%4
		default:
			return n
		}
	}
	return n
}

// fenceOpen reports whether line opens a fenced code block and returns
// the fence geometry and info string.
func fenceOpen(line string) (indent int, marker byte, markerLen int, info string, ok bool) {
	indent = leadingIndent(line)
	if indent > 3 {
		return 0, 0, 0, "", false
	}
	rest := strings.TrimLeft(line, " \t")
	if len(rest) < 3 {
		return 0, 0, 0, "", false
	}
	m := rest[0]
	if m != '`' && m != '~' {
		return 0, 0, 0, "", false
	}
	n := 0
	for n < len(rest) && rest[n] == m {
		n++
	}
	if n < 3 {
		return 0, 0, 0, "", false
	}
	info = strings.TrimSpace(rest[n:])
	// An info string containing a backtick cannot open a backtick fence.
	if m == '`' && strings.ContainsRune(info, '`') {
		return 0, 0, 0, "", false
	}
	return indent, m, n, info, true
}

// fenceCloses reports whether line closes a fence opened with marker
// repeated markerLen times.
func fenceCloses(line string, marker byte, markerLen int) bool {
	if leadingIndent(line) > 3 {
		return false
	}
	rest := strings.TrimLeft(line, " \t")
	n := 0
	for n < len(rest) && rest[n] == marker {
		n++
	}
	if n < markerLen {
		return false
	}
	return strings.TrimSpace(rest[n:]) == ""
}

// atxHeading reports whether line is a # heading and returns its level
// and text with any closing # sequence stripped.
func atxHeading(line string) (level int, text string, ok bool) {
	if leadingIndent(line) > 3 {
		return 0, "", false
	}
	rest := strings.TrimLeft(line, " ")
	n := 0
	for n < len(rest) && rest[n] == '#' {
		n++
	}
	if n < 1 || n > 6 {
		return 0, "", false
	}
	if n < len(rest) && rest[n] != ' ' && rest[n] != '\t' {
		return 0, "", false
	}
	text = strings.TrimSpace(rest[n:])
	// Strip a closing sequence: "## Foo ##" -> "Foo".
	trimmed := strings.TrimRight(text, "#")
	if trimmed != text && (trimmed == "" || strings.HasSuffix(trimmed, " ")) {
		text = strings.TrimRight(trimmed, " ")
	}
	return n, text, true
}

// setextUnderline reports whether line is a setext heading underline.
func setextUnderline(line string) (level int, ok bool) {
	if leadingIndent(line) > 3 {
		return 0, false
	}
	rest := strings.TrimSpace(line)
	if rest == "" {
		return 0, false
	}
	c := rest[0]
	if c != '=' && c != '-' {
		return 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] != c {
			return 0, false
		}
	}
	if c == '=' {
		return 1, true
	}
	return 2, true
}

// isThematicBreak reports whether line is a horizontal rule: three or
// more -, * or _ with only spaces between them.
func isThematicBreak(line string) bool {
	if leadingIndent(line) > 3 {
		return false
	}
	rest := strings.TrimSpace(line)
	if len(rest) < 3 {
		return false
	}
	c := rest[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	count := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case c:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func isBlockQuoteLine(line string) bool {
	if leadingIndent(line) > 3 {
		return false
	}
	return strings.HasPrefix(strings.TrimLeft(line, " "), ">")
}

// stripBlockQuote removes one level of > quoting.
func stripBlockQuote(line string) string {
	rest := strings.TrimLeft(line, " ")
	rest = strings.TrimPrefix(rest, ">")
	return strings.TrimPrefix(rest, " ")
}

// listMarker reports whether line begins a list item and returns the
// marker and the byte offset where item content starts.
func listMarker(line string) (ordered bool, marker string, contentBytes int, ok bool) {
	lead := countIndentBytes(line)
	rest := line[lead:]
	if rest == "" {
		return false, "", 0, false
	}

	switch rest[0] {
	case '-', '*', '+':
		if len(rest) < 2 || (rest[1] != ' ' && rest[1] != '\t') {
			return false, "", 0, false
		}
		// Distinguish "- - -" thematic breaks from bullets.
		if isThematicBreak(line) {
			return false, "", 0, false
		}
		after := 2
		for after < len(rest) && rest[after] == ' ' {
			after++
		}
		return false, string(rest[0]), lead + after, true
	}

	// Ordered: 1-9 digits followed by . or )
	n := 0
	for n < len(rest) && n < 9 && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n == 0 || n >= len(rest) {
		return false, "", 0, false
	}
	if rest[n] != '.' && rest[n] != ')' {
		return false, "", 0, false
	}
	if n+1 >= len(rest) || (rest[n+1] != ' ' && rest[n+1] != '\t') {
		return false, "", 0, false
	}
	after := n + 2
	for after < len(rest) && rest[after] == ' ' {
		after++
	}
	return true, rest[:n+1], lead + after, true
}

// countIndentBytes returns the number of leading whitespace bytes.
func countIndentBytes(line string) int {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

// columnWidth returns the visual width of s with tabs at 4-column stops.
func columnWidth(s string) int {
	w := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\t' {
			w += 4 - w%4
		} else {
			w++
		}
	}
	return w
}

func isIndentedCodeLine(line string) bool {
	return !isBlankLine(line) && leadingIndent(line) >= 4
}

// stripIndent removes up to n columns of leading whitespace.
func stripIndent(line string, n int) string {
	removed := 0
	i := 0
	for i < len(line) && removed < n {
		switch line[i] {
		case ' ':
			removed++
		case '\t':
			removed += 4 - removed%4
		default:
			return line[i:]
		}
		i++
	}
	return line[i:]
}

func isHTMLBlockStart(line string) bool {
	if leadingIndent(line) > 3 {
		return false
	}
	rest := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(rest, "<") {
		return false
	}
	if strings.HasPrefix(rest, "<!--") {
		return true
	}
	if len(rest) < 2 {
		return false
	}
	c := rest[1]
	if c == '/' {
		if len(rest) < 3 {
			return false
		}
		c = rest[2]
	}
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// linkRefDef reports whether line is a single-line link reference
// definition: [label]: destination "optional title".
func linkRefDef(line string) (label, dest, title string, ok bool) {
	if leadingIndent(line) > 3 {
		return "", "", "", false
	}
	rest := strings.TrimSpace(line)
	if !strings.HasPrefix(rest, "[") {
		return "", "", "", false
	}
	end := strings.Index(rest, "]:")
	if end < 1 {
		return "", "", "", false
	}
	label = rest[1:end]
	if strings.ContainsAny(label, "[]") {
		return "", "", "", false
	}
	rest = strings.TrimSpace(rest[end+2:])
	if rest == "" {
		return "", "", "", false
	}

	if rest[0] == '<' {
		close := strings.IndexByte(rest, '>')
		if close < 0 {
			return "", "", "", false
		}
		dest = rest[1:close]
		rest = strings.TrimSpace(rest[close+1:])
	} else {
		sp := strings.IndexAny(rest, " \t")
		if sp < 0 {
			return label, rest, "", true
		}
		dest = rest[:sp]
		rest = strings.TrimSpace(rest[sp+1:])
	}

	if rest != "" {
		if len(rest) >= 2 {
			open := rest[0]
			var close byte
			switch open {
			case '"':
				close = '"'
			case '\'':
				close = '\''
			case '(':
				close = ')'
			default:
				return "", "", "", false
			}
			if rest[len(rest)-1] != close {
				return "", "", "", false
			}
			title = rest[1 : len(rest)-1]
		} else {
			return "", "", "", false
		}
	}
	return label, dest, title, true
}

// parseDelimiterRow parses a table delimiter row like |---|:--:|---:|
// and returns the column alignments.
func parseDelimiterRow(line string) ([]Alignment, bool) {
	if leadingIndent(line) > 3 {
		return nil, false
	}
	rest := strings.TrimSpace(line)
	if !strings.Contains(rest, "-") {
		return nil, false
	}
	rest = strings.TrimPrefix(rest, "|")
	rest = strings.TrimSuffix(rest, "|")
	cells := strings.Split(rest, "|")
	aligns := make([]Alignment, 0, len(cells))
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return nil, false
		}
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		dashes := strings.Trim(cell, ":")
		if dashes == "" || strings.Count(dashes, "-") != len(dashes) {
			return nil, false
		}
		switch {
		case left && right:
			aligns = append(aligns, AlignCenter)
		case right:
			aligns = append(aligns, AlignRight)
		case left:
			aligns = append(aligns, AlignLeft)
		default:
			aligns = append(aligns, AlignNone)
		}
	}
	if len(aligns) == 0 {
		return nil, false
	}
	return aligns, true
}

// FenceOpen reports whether line opens a fenced code block (public
// wrapper for fenceOpen).
func FenceOpen(line string) (indent int, marker byte, markerLen int, info string, ok bool) {
	return fenceOpen(line)
}

// FenceCloses reports whether line closes a fence opened with marker
// repeated markerLen times (public wrapper for fenceCloses).
func FenceCloses(line string, marker byte, markerLen int) bool {
	return fenceCloses(line, marker, markerLen)
}

// splitTableRow splits a table row into trimmed cells, honoring \|
// escapes and leaving backslashes otherwise untouched.
func splitTableRow(line string) []string {
	rest := strings.TrimSpace(line)
	rest = strings.TrimPrefix(rest, "|")
	rest = strings.TrimSuffix(rest, "|")

	var cells []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		switch {
		case escaped:
			if c != '|' {
				cur.WriteByte('\\')
			}
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if escaped {
		cur.WriteByte('\\')
	}
	cells = append(cells, strings.TrimSpace(cur.String()))
	return cells
}
