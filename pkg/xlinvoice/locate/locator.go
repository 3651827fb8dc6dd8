package locate

import (
	"strings"
	"time"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
)

// Match is the coordinate of a label cell.
type Match struct {
	Row int
	Col int
}

// Label returns the lower-cased, width-folded text used for keyword matching.
func Label(c models.Cell) string {
	return strings.ToLower(normalize.Fold(c.Text()))
}

// Locate scans the grid in row-major order and returns the first cell whose
// label contains any keyword. There is no ranking between matches.
func Locate(g *models.Grid, keywords KeywordSet) (Match, bool) {
	if keywords.Empty() {
		return Match{}, false
	}
	for row := range g.Rows() {
		for _, cell := range row {
			if !cell.HasValue() {
				continue
			}
			if keywords.MatchedBy(Label(cell)) {
				return Match{Row: cell.Row, Col: cell.Col}, true
			}
		}
	}
	return Match{}, false
}

// AdjacentCell returns the value cell for a label: the cell to the right when
// it has a value, otherwise the cell below. ok is false when neither has one.
func AdjacentCell(g *models.Grid, m Match) (models.Cell, bool) {
	if right := g.CellAt(m.Row, m.Col+1); right.HasValue() {
		return right, true
	}
	if below := g.CellAt(m.Row+1, m.Col); below.HasValue() {
		return below, true
	}
	return models.Cell{}, false
}

// ExtractNear returns the text of the value next to the first label matching
// keywords, or "" when the label or its value is missing.
func ExtractNear(g *models.Grid, keywords KeywordSet) string {
	m, ok := Locate(g, keywords)
	if !ok {
		return ""
	}
	cell, ok := AdjacentCell(g, m)
	if !ok {
		return ""
	}
	return cell.Text()
}

// ExtractDate reads a date field. A natively typed date cell is used as is;
// anything else goes through text date parsing.
func ExtractDate(g *models.Grid, keywords KeywordSet) (time.Time, bool) {
	m, ok := Locate(g, keywords)
	if !ok {
		return time.Time{}, false
	}
	cell, ok := AdjacentCell(g, m)
	if !ok {
		return time.Time{}, false
	}
	if cell.Kind == models.CellDate {
		return cell.Time, true
	}
	return normalize.ParseDate(cell.Text())
}
