package xlinvoice

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/xuri/excelize/v2"
)

var quietLogger = slog.New(slog.DiscardHandler)

// writeWorkbook saves sheets (in order) to a temporary xlsx file.
func writeWorkbook(t *testing.T, sheets []string, rows map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range rows[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "invoices.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExtract(t *testing.T) {
	path := writeWorkbook(t,
		[]string{"Acme Corp 2024-01", "Acme Corp 2024-02", "Notes", "Globex Jan 2024"},
		map[string][][]any{
			"Acme Corp 2024-01": {
				{"Invoice No", "A-1"},
				{"Total", "$500"},
			},
			"Acme Corp 2024-02": {
				{"Invoice No", "A-2"},
				{"Description", "Qty", "Unit Price"},
				{"Widget", 2, 10.0},
			},
			"Notes": {
				{"nothing to see here"},
			},
			"Globex Jan 2024": {
				{"Item", "Amount"},
				{"Retainer", "¥50,000"},
			},
		})

	res, err := Extract(path, testOptions(), quietLogger)
	require.NoError(t, err)

	assert.Equal(t, "invoices.xlsx", res.BookName)
	assert.Equal(t, models.Summary{
		TotalSheets:   4,
		Skipped:       1,
		Clients:       2,
		Invoices:      3,
		LineItems:     2,
		SkippedSheets: []string{"Notes"},
	}, res.Summary)

	require.Len(t, res.Batch.Clients, 2)
	assert.Equal(t, "Acme Corp", res.Batch.Clients[0].Name)
	assert.Equal(t, "Globex", res.Batch.Clients[1].Name)

	invs := res.Batch.Invoices
	require.Len(t, invs, 3)
	assert.Equal(t, invs[0].ClientID, invs[1].ClientID)
	assert.Equal(t, res.Batch.Clients[1].ID, invs[2].ClientID)

	assert.Equal(t, int64(500), invs[0].TotalAmount)
	assert.Equal(t, int64(20), invs[1].TotalAmount)
	assert.Equal(t, int64(50000), invs[2].TotalAmount)

	for _, inv := range invs {
		assert.NotEqual(t, uuid.Nil, inv.ID)
		assert.Equal(t, fixedNow, inv.CreatedAt)
		for _, it := range inv.Items {
			assert.Equal(t, inv.ID, it.InvoiceID)
		}
	}
}

func TestExtract_PrintArea(t *testing.T) {
	path := writeWorkbook(t, []string{"Initech"}, map[string][][]any{
		"Initech": {
			{nil, nil, nil, nil, "Total", "$999"},
			{"Total", "$300"},
		},
	})
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "Initech!$A$1:$C$10",
		Scope:    "Initech",
	}))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	opts := testOptions()
	res, err := Extract(path, opts, quietLogger)
	require.NoError(t, err)
	require.Len(t, res.Batch.Invoices, 1)
	assert.Equal(t, int64(999), res.Batch.Invoices[0].TotalAmount)

	opts.UsePrintArea = true
	res, err = Extract(path, opts, quietLogger)
	require.NoError(t, err)
	require.Len(t, res.Batch.Invoices, 1)
	assert.Equal(t, int64(300), res.Batch.Invoices[0].TotalAmount)
}

func TestExtract_FileNotFound(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.xlsx"), testOptions(), quietLogger)
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestExtract_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	_, err := Extract(path, testOptions(), quietLogger)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestConvert_DeterministicIDs(t *testing.T) {
	var n byte
	opts := testOptions()
	opts.NewID = func() uuid.UUID {
		n++
		return uuid.UUID{15: n}
	}

	wb := &models.Workbook{
		BookName: "mem.xlsx",
		Sheets: []models.Sheet{
			{Name: "Acme 2024-01", Grid: models.GridFromText([][]string{
				{"Description", "Qty", "Unit Price"},
				{"Widget", "1", "5"},
			})},
			{Name: "Broken", Grid: nil},
		},
	}

	res := Convert(wb, opts, quietLogger)

	require.Len(t, res.Batch.Clients, 1)
	assert.Equal(t, uuid.UUID{15: 1}, res.Batch.Clients[0].ID)
	require.Len(t, res.Batch.Invoices, 1)
	inv := res.Batch.Invoices[0]
	assert.Equal(t, uuid.UUID{15: 2}, inv.ID)
	assert.Equal(t, uuid.UUID{15: 3}, inv.Items[0].ID)
	assert.Equal(t, 1, res.Summary.Skipped)
	assert.Equal(t, []string{"Broken"}, res.Summary.SkippedSheets)
}
