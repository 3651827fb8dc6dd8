package parser

import (
	"fmt"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/locate"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/policy"
	"github.com/xuri/excelize/v2"
)

// DefaultHeaderScanRows is how many leading rows are searched for a table header.
const DefaultHeaderScanRows = 50

// Role is the meaning of a line-item table column.
type Role int

const (
	// RoleName marks the item description column.
	RoleName Role = iota
	// RoleQuantity marks the quantity column.
	RoleQuantity
	// RoleUnitPrice marks the per-unit price column.
	RoleUnitPrice
	// RoleAmount marks the line amount column.
	RoleAmount
	// RoleTaxRate marks the tax rate column.
	RoleTaxRate
)

// String returns the role's short name as used in log output.
func (r Role) String() string {
	switch r {
	case RoleName:
		return "name"
	case RoleQuantity:
		return "qty"
	case RoleUnitPrice:
		return "unit_price"
	case RoleAmount:
		return "amount"
	case RoleTaxRate:
		return "tax_rate"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// RoleKeywords pairs a column role with the header labels that announce it.
type RoleKeywords struct {
	Role     Role
	Keywords locate.KeywordSet
}

// ColumnRoles is the ordered role table used for header detection. A header
// cell takes the first role whose keywords it contains.
type ColumnRoles struct {
	groups    []RoleKeywords
	skipNames locate.KeywordSet
}

// NewColumnRoles copies groups in priority order. Rows whose name contains
// one of skipNames are treated as summary rows and skipped.
func NewColumnRoles(groups []RoleKeywords, skipNames locate.KeywordSet) ColumnRoles {
	return ColumnRoles{
		groups:    append([]RoleKeywords(nil), groups...),
		skipNames: skipNames,
	}
}

// DefaultColumnRoles returns the English and Japanese header labels.
func DefaultColumnRoles() ColumnRoles {
	return NewColumnRoles([]RoleKeywords{
		{RoleName, locate.NewKeywordSet("description", "item", "品名", "内容", "項目")},
		{RoleQuantity, locate.NewKeywordSet("qty", "quantity", "数量")},
		{RoleUnitPrice, locate.NewKeywordSet("unit price", "unit cost", "単価")},
		{RoleAmount, locate.NewKeywordSet("amount", "金額", "小計")},
		{RoleTaxRate, locate.NewKeywordSet("tax", "税率", "vat", "gst")},
	}, locate.NewKeywordSet("total", "合計", "subtotal", "小計"))
}

// roleOf returns the first role whose keywords the label contains.
func (c ColumnRoles) roleOf(label string) (Role, bool) {
	for _, g := range c.groups {
		if g.Keywords.MatchedBy(label) {
			return g.Role, true
		}
	}
	return 0, false
}

// Header is a detected line-item table header.
type Header struct {
	// Row is the 1-based header row.
	Row int
	// Columns maps each matched role to its 1-based column. When several cells
	// share a role the rightmost one wins.
	Columns map[Role]int
}

// Column returns the column of a role.
func (h Header) Column(r Role) (int, bool) {
	col, ok := h.Columns[r]
	return col, ok
}

// DetectHeader returns the first row within the first maxRows rows whose
// cells match at least two distinct roles.
func DetectHeader(g *models.Grid, roles ColumnRoles, maxRows int) (Header, bool) {
	if maxRows <= 0 {
		maxRows = DefaultHeaderScanRows
	}
	for row := range g.Rows() {
		if len(row) == 0 || row[0].Row > maxRows {
			break
		}
		cols := make(map[Role]int)
		for _, cell := range row {
			if !cell.HasValue() {
				continue
			}
			if role, ok := roles.roleOf(locate.Label(cell)); ok {
				cols[role] = cell.Col
			}
		}
		if len(cols) >= 2 {
			return Header{Row: row[0].Row, Columns: cols}, true
		}
	}
	return Header{}, false
}

// Table is a detected line-item table.
type Table struct {
	Header Header
	// LastRow is the last row read as part of the table, or the header row if none.
	LastRow int
	Items   []models.LineItem
	// OutOfRange lists rows whose line amount does not fit in an int64.
	// Those rows are not in Items.
	OutOfRange []int
}

// Range returns the table extent in A1 notation, e.g. "A5:D9".
func (t Table) Range() string {
	minCol, maxCol := 0, 0
	for _, col := range t.Header.Columns {
		if minCol == 0 || col < minCol {
			minCol = col
		}
		maxCol = max(maxCol, col)
	}
	if minCol == 0 {
		return ""
	}
	start, err := excelize.CoordinatesToCellName(minCol, t.Header.Row)
	if err != nil {
		return ""
	}
	end, err := excelize.CoordinatesToCellName(maxCol, t.LastRow)
	if err != nil {
		return ""
	}
	return start + ":" + end
}

// LineItemDetector finds the line-item table of a sheet and reads its rows.
type LineItemDetector struct {
	Roles    ColumnRoles
	Symbols  normalize.SymbolTable
	Policies policy.Policies
	// MaxHeaderRows bounds the header search; zero means DefaultHeaderScanRows.
	MaxHeaderRows int
}

// NewLineItemDetector returns a detector with the default roles and symbols.
func NewLineItemDetector(p policy.Policies) *LineItemDetector {
	return &LineItemDetector{
		Roles:         DefaultColumnRoles(),
		Symbols:       normalize.DefaultSymbols(),
		Policies:      p,
		MaxHeaderRows: DefaultHeaderScanRows,
	}
}

// Detect returns the sheet's line-item table. ok is false when no header
// exists or the header has no name column. The table ends at the first row
// whose name cell is blank or a numeric zero; summary rows before that are skipped.
func (d *LineItemDetector) Detect(g *models.Grid) (Table, bool) {
	header, ok := DetectHeader(g, d.Roles, d.MaxHeaderRows)
	if !ok {
		return Table{}, false
	}
	nameCol, ok := header.Column(RoleName)
	if !ok {
		return Table{Header: header, LastRow: header.Row}, false
	}

	table := Table{Header: header, LastRow: header.Row}
	for row := header.Row + 1; row <= g.MaxRow(); row++ {
		cell := g.CellAt(row, nameCol)
		if endsTable(cell) {
			break
		}
		table.LastRow = row
		if d.Roles.skipNames.MatchedBy(locate.Label(cell)) {
			continue
		}
		item, err := d.readItem(g, header, row, cell.Text())
		if err != nil {
			table.OutOfRange = append(table.OutOfRange, row)
			continue
		}
		table.Items = append(table.Items, item)
	}
	return table, true
}

// endsTable reports whether a name cell terminates the item rows.
func endsTable(c models.Cell) bool {
	if c.Kind == models.CellNumber {
		return c.Number == 0
	}
	return c.Text() == ""
}

func (d *LineItemDetector) readItem(g *models.Grid, h Header, row int, name string) (models.LineItem, error) {
	qty := 1.0
	if col, ok := h.Column(RoleQuantity); ok {
		qty = normalize.ParseQuantity(g.CellAt(row, col).Text())
	}

	var unitPrice float64
	if col, ok := h.Column(RoleUnitPrice); ok {
		unitPrice = d.money(g.CellAt(row, col))
	}

	var amount float64
	amountCol, hasAmount := h.Column(RoleAmount)
	if hasAmount {
		amount = d.money(g.CellAt(row, amountCol))
	}
	unitCost := d.unitCost(unitPrice, amount, hasAmount)

	var taxRate float64
	if col, ok := h.Column(RoleTaxRate); ok {
		taxRate = d.taxRate(g.CellAt(row, col).Text())
	}

	lineAmount, err := normalize.LineAmount(unitCost, qty, taxRate)
	if err != nil {
		return models.LineItem{}, err
	}
	return models.LineItem{
		Name:     name,
		Quantity: qty,
		UnitCost: unitCost,
		TaxRate:  taxRate,
		Amount:   lineAmount,
	}, nil
}

func (d *LineItemDetector) money(c models.Cell) float64 {
	if c.Kind == models.CellNumber {
		return c.Number
	}
	return d.Symbols.Parse(c.Text(), normalize.DefaultCurrency).Value
}

func (d *LineItemDetector) unitCost(unitPrice, amount float64, hasAmount bool) float64 {
	if d.Policies.UnitCost == nil {
		return policy.AmountFallback(unitPrice, amount, hasAmount)
	}
	return d.Policies.UnitCost(unitPrice, amount, hasAmount)
}

func (d *LineItemDetector) taxRate(text string) float64 {
	if d.Policies.TaxRate == nil {
		return normalize.ParsePercentage(text)
	}
	return d.Policies.TaxRate(text)
}
