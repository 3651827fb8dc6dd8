package parser

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/xuri/excelize/v2"
)

// ExtractGrid reads every non-empty cell of a sheet into a Grid.
// Numbers are kept as numbers and cells with a date number format become
// dates. When bounds is non-nil, cells outside it are dropped.
func ExtractGrid(f *excelize.File, sheetName string, bounds *models.Bounds) (*models.Grid, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	r := &cellReader{
		f:        f,
		sheet:    sheetName,
		date1904: uses1904(f),
		dateFmt:  make(map[int]bool),
	}

	var cells []models.Cell
	for rowIdx, row := range rows {
		rowNum := rowIdx + 1 // 1-based row index
		for colIdx, raw := range row {
			colNum := colIdx + 1
			if raw == "" {
				continue
			}
			if bounds != nil && !bounds.Contains(rowNum, colNum) {
				continue
			}
			cells = append(cells, r.read(rowNum, colNum, raw))
		}
	}

	return models.NewGrid(cells), nil
}

type cellReader struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	// style id -> has a date number format
	dateFmt map[int]bool
}

func (r *cellReader) read(row, col int, raw string) models.Cell {
	cellName, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.TextCell(row, col, raw)
	}

	cellType, err := r.f.GetCellType(r.sheet, cellName)
	if err != nil {
		cellType = excelize.CellTypeUnset
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return models.TextCell(row, col, raw)
	case excelize.CellTypeBool:
		return models.TextCell(row, col, boolText(raw))
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return models.DateCell(row, col, t)
		}
		return models.TextCell(row, col, raw)
	}

	v, ok := parseNumber(raw)
	if !ok {
		return models.TextCell(row, col, raw)
	}
	if r.isDate(cellName) {
		if t, err := excelize.ExcelDateToTime(v, r.date1904); err == nil {
			return models.DateCell(row, col, t)
		}
	}
	return models.NumberCell(row, col, v)
}

// isDate reports whether the cell's style applies a date number format.
func (r *cellReader) isDate(cellName string) bool {
	styleID, err := r.f.GetCellStyle(r.sheet, cellName)
	if err != nil || styleID == 0 {
		return false
	}
	if v, ok := r.dateFmt[styleID]; ok {
		return v
	}
	style, err := r.f.GetStyle(styleID)
	isDate := err == nil && style != nil && styleIsDate(style)
	r.dateFmt[styleID] = isDate
	return isDate
}

func styleIsDate(style *excelize.Style) bool {
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return IsDateFormat(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat covers the built-in date and date-time formats,
// including the CJK locale ids.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// IsDateFormat reports whether a custom number format code renders a date.
// Quoted literals, bracketed sections and escaped characters are ignored.
func IsDateFormat(code string) bool {
	var b strings.Builder
	inQuote := false
	inBracket := false
	escaped := false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\' || r == '_' || r == '*':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}
	// only the positive section decides
	section, _, _ := strings.Cut(strings.ToLower(b.String()), ";")
	if strings.ContainsAny(section, "yd") {
		return true
	}
	// "mmm-yy" style month formats without digits placeholders
	return strings.Contains(section, "m") && !strings.ContainsAny(section, "0#?hs")
}

func uses1904(f *excelize.File) bool {
	props, err := f.GetWorkbookProps()
	if err != nil || props.Date1904 == nil {
		return false
	}
	return *props.Date1904
}

func boolText(raw string) string {
	switch raw {
	case "1":
		return "TRUE"
	case "0":
		return "FALSE"
	}
	return raw
}

// parseNumber attempts to parse a raw cell value as a number.
func parseNumber(s string) (float64, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, true
	}
	return 0, false
}
