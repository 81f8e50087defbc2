package model

import (
	"strings"

	"github.com/tsawler/stylemark/core"
)

// Table represents a pipe table with its source position
type Table struct {
	Rows   [][]string // Rows[0] is the header row
	Aligns []core.Alignment
	Line   int // Header row source line (1-indexed)
}

// RowCount returns the number of rows including the header
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the header row
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// IsRectangular reports whether every row has the header's column count
// and the delimiter row declared the same width.
func (t *Table) IsRectangular() bool {
	cols := t.ColCount()
	if cols == 0 {
		return false
	}
	if len(t.Aligns) != cols {
		return false
	}
	for _, row := range t.Rows {
		if len(row) != cols {
			return false
		}
	}
	return true
}

// Cell returns the cell at row, col (0-indexed), or "" out of bounds.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ToMarkdown renders the table back to normalized pipe-table markdown.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for _, cell := range cells {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell, "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Rows[0])
	for j := 0; j < t.ColCount(); j++ {
		align := AlignOf(t.Aligns, j)
		switch align {
		case core.AlignCenter:
			sb.WriteString("|:---:")
		case core.AlignRight:
			sb.WriteString("|---:")
		case core.AlignLeft:
			sb.WriteString("|:---")
		default:
			sb.WriteString("|---")
		}
	}
	sb.WriteString("|\n")
	for _, row := range t.Rows[1:] {
		writeRow(row)
	}
	return sb.String()
}

// ToCSV converts the table to CSV format.
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			if strings.ContainsAny(cell, ",\"\n") {
				cell = "\"" + strings.ReplaceAll(cell, "\"", "\"\"") + "\""
			}
			sb.WriteString(cell)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// AlignOf returns the alignment for column j, defaulting to none when
// the delimiter row is narrower than the table.
func AlignOf(aligns []core.Alignment, j int) core.Alignment {
	if j < 0 || j >= len(aligns) {
		return core.AlignNone
	}
	return aligns[j]
}

// TableFromBlock builds a Table from a scanned table block.
func TableFromBlock(b *core.Block) *Table {
	if b == nil || b.Type != core.BlockTable {
		return nil
	}
	return &Table{
		Rows:   b.Rows,
		Aligns: b.Aligns,
		Line:   b.StartLine,
	}
}
