// Package models defines the grid and record types shared by the extraction packages.
package models

import (
	"iter"
	"strconv"
	"strings"
	"time"
)

// CellKind identifies the native type of a cell value.
type CellKind int

const (
	// CellEmpty marks a cell without a value.
	CellEmpty CellKind = iota
	// CellText marks a string cell.
	CellText
	// CellNumber marks a numeric cell.
	CellNumber
	// CellDate marks a numeric cell carrying a date number format.
	CellDate
)

// String returns the string representation of the cell kind.
func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "unknown"
	}
}

// dateTimeLayout is the text form of a date cell.
const dateTimeLayout = "2006-01-02 15:04:05"

// Cell is a single immutable grid cell.
type Cell struct {
	// Row is the row index (1-based).
	Row int `json:"r"`
	// Col is the column index (1-based).
	Col int `json:"c"`
	// Kind is the native value type.
	Kind CellKind `json:"kind"`
	// Raw holds the string value for text cells.
	Raw string `json:"raw,omitempty"`
	// Number holds the value for number cells.
	Number float64 `json:"number,omitempty"`
	// Time holds the value for date cells.
	Time time.Time `json:"time,omitzero"`
}

// TextCell returns a text cell. Blank strings produce an empty cell.
func TextCell(row, col int, s string) Cell {
	if s == "" {
		return Cell{Row: row, Col: col}
	}
	return Cell{Row: row, Col: col, Kind: CellText, Raw: s}
}

// NumberCell returns a numeric cell.
func NumberCell(row, col int, v float64) Cell {
	return Cell{Row: row, Col: col, Kind: CellNumber, Number: v}
}

// DateCell returns a date cell.
func DateCell(row, col int, t time.Time) Cell {
	return Cell{Row: row, Col: col, Kind: CellDate, Time: t}
}

// HasValue reports whether the cell holds any value.
func (c Cell) HasValue() bool {
	return c.Kind != CellEmpty
}

// Text returns the trimmed text form of the cell value, or "" for empty cells.
func (c Cell) Text() string {
	switch c.Kind {
	case CellText:
		return strings.TrimSpace(c.Raw)
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellDate:
		return c.Time.Format(dateTimeLayout)
	default:
		return ""
	}
}

// Grid is the in-memory 2-D cell array of one sheet.
// Coordinates are 1-based; reads outside the populated area yield empty cells.
type Grid struct {
	cells  [][]Cell
	maxCol int
}

// NewGrid places the given cells into a grid. Later cells overwrite earlier ones at the same coordinate.
func NewGrid(cells []Cell) *Grid {
	g := &Grid{}
	for _, c := range cells {
		if c.Row < 1 || c.Col < 1 {
			continue
		}
		for len(g.cells) < c.Row {
			g.cells = append(g.cells, nil)
		}
		row := g.cells[c.Row-1]
		for len(row) < c.Col {
			row = append(row, Cell{Row: c.Row, Col: len(row) + 1})
		}
		row[c.Col-1] = c
		g.cells[c.Row-1] = row
		if c.Col > g.maxCol {
			g.maxCol = c.Col
		}
	}
	return g
}

// MaxRow returns the last populated row index.
func (g *Grid) MaxRow() int {
	return len(g.cells)
}

// MaxCol returns the last populated column index.
func (g *Grid) MaxCol() int {
	return g.maxCol
}

// CellAt returns the cell at (row, col).
func (g *Grid) CellAt(row, col int) Cell {
	if row < 1 || col < 1 || row > len(g.cells) {
		return Cell{Row: row, Col: col}
	}
	r := g.cells[row-1]
	if col > len(r) {
		return Cell{Row: row, Col: col}
	}
	return r[col-1]
}

// Row returns a full-width copy of the given row.
func (g *Grid) Row(row int) []Cell {
	out := make([]Cell, g.maxCol)
	for col := 1; col <= g.maxCol; col++ {
		out[col-1] = g.CellAt(row, col)
	}
	return out
}

// Rows iterates rows top to bottom, each padded to MaxCol cells.
// Every call starts a fresh pass.
func (g *Grid) Rows() iter.Seq[[]Cell] {
	return func(yield func([]Cell) bool) {
		for row := 1; row <= len(g.cells); row++ {
			if !yield(g.Row(row)) {
				return
			}
		}
	}
}

// GridFromText builds a grid of text cells from row-major strings. Blank strings are empty cells.
func GridFromText(rows [][]string) *Grid {
	var cells []Cell
	for r, row := range rows {
		for c, s := range row {
			if s != "" {
				cells = append(cells, TextCell(r+1, c+1, s))
			}
		}
	}
	return NewGrid(cells)
}
