package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/xuri/excelize/v2"
)

func TestParsePrintAreaReference(t *testing.T) {
	tests := []struct {
		ref       string
		wantSheet string
		wantCount int
	}{
		{"Sheet1!$A$1:$D$10", "Sheet1", 1},
		{"'My Sheet'!$A$1:$D$10", "My Sheet", 1},
		{"'O''Brien'!$A$1:$B$2", "O'Brien", 1},
		{"Sheet1!$A$1:$D$10,Sheet1!$F$1:$H$20", "Sheet1", 2},
		{"", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			sheet, areas := parsePrintAreaReference(tt.ref)
			assert.Equal(t, tt.wantSheet, sheet)
			assert.Len(t, areas, tt.wantCount)
		})
	}
}

func TestParseRange(t *testing.T) {
	b, ok := ParseRange("$B$2:$D$10")
	require.True(t, ok)
	assert.Equal(t, models.Bounds{R1: 2, C1: 2, R2: 10, C2: 4}, b)

	b, ok = ParseRange("D10:B2")
	require.True(t, ok)
	assert.Equal(t, models.Bounds{R1: 2, C1: 2, R2: 10, C2: 4}, b)

	b, ok = ParseRange("C3")
	require.True(t, ok)
	assert.Equal(t, models.Bounds{R1: 3, C1: 3, R2: 3, C2: 3}, b)

	_, ok = ParseRange("not a range")
	assert.False(t, ok)
}

func TestPrintAreas(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "Sheet1!$A$1:$F$40",
		Scope:    "Sheet1",
	}))

	areas := PrintAreas(f)
	box, ok := PrintArea(areas, "Sheet1")
	require.True(t, ok)
	assert.Equal(t, models.Bounds{R1: 1, C1: 1, R2: 40, C2: 6}, *box)

	_, ok = PrintArea(areas, "Sheet2")
	assert.False(t, ok)
}

func TestPrintArea_UnionOfAreas(t *testing.T) {
	areas := map[string][]models.Bounds{
		"S": {{R1: 2, C1: 1, R2: 10, C2: 3}, {R1: 1, C1: 5, R2: 8, C2: 7}},
	}
	box, ok := PrintArea(areas, "S")
	require.True(t, ok)
	assert.Equal(t, models.Bounds{R1: 1, C1: 1, R2: 10, C2: 7}, *box)
}
