package parser

import (
	"strings"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/xuri/excelize/v2"
)

// PrintAreas returns the print areas defined in a workbook, keyed by sheet name.
// Invoice templates usually set one; scratch calculations beside the printed
// form fall outside it.
func PrintAreas(f *excelize.File) map[string][]models.Bounds {
	result := make(map[string][]models.Bounds)

	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		sheetName, areas := parsePrintAreaReference(dn.RefersTo)
		if sheetName == "" && dn.Scope != "" && !strings.EqualFold(dn.Scope, "Workbook") {
			sheetName = dn.Scope
		}
		if sheetName != "" && len(areas) > 0 {
			result[sheetName] = append(result[sheetName], areas...)
		}
	}

	return result
}

// PrintArea returns the bounding box of a sheet's print areas, if any.
func PrintArea(areas map[string][]models.Bounds, sheetName string) (*models.Bounds, bool) {
	list := areas[sheetName]
	if len(list) == 0 {
		return nil, false
	}
	box := list[0]
	for _, a := range list[1:] {
		box.R1 = min(box.R1, a.R1)
		box.C1 = min(box.C1, a.C1)
		box.R2 = max(box.R2, a.R2)
		box.C2 = max(box.C2, a.C2)
	}
	return &box, true
}

// parsePrintAreaReference parses a print area reference string.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10,SheetName!$F$1:$H$10
func parsePrintAreaReference(ref string) (string, []models.Bounds) {
	var areas []models.Bounds
	var sheetName string

	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		rangeStr := part
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			sheet := strings.Trim(part[:idx], "'")
			sheet = strings.ReplaceAll(sheet, "''", "'")
			if sheetName == "" {
				sheetName = sheet
			}
			rangeStr = part[idx+1:]
		}

		if area, ok := ParseRange(rangeStr); ok {
			areas = append(areas, area)
		}
	}

	return sheetName, areas
}

// ParseRange parses a range such as "$A$1:$D$10" or "B2:H40". A single cell
// reference yields a one-cell range.
func ParseRange(rangeStr string) (models.Bounds, bool) {
	rangeStr = strings.ReplaceAll(strings.TrimSpace(rangeStr), "$", "")

	start, end, found := strings.Cut(rangeStr, ":")
	if !found {
		end = start
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(start)
	if err != nil {
		return models.Bounds{}, false
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(end)
	if err != nil {
		return models.Bounds{}, false
	}

	return models.Bounds{
		R1: min(startRow, endRow),
		C1: min(startCol, endCol),
		R2: max(startRow, endRow),
		C2: max(startCol, endCol),
	}, true
}
