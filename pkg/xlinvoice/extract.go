package xlinvoice

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/parser"
	"github.com/xuri/excelize/v2"
)

// Result is the outcome of converting one workbook.
type Result struct {
	BookName string
	Batch    models.Batch
	Summary  models.Summary
}

// Extract reads the workbook at path and converts every sheet.
// It fails with ErrFileNotFound or ErrInvalidFormat before any sheet is examined.
func Extract(path string, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	wb, err := ReadWorkbook(path, opts, logger)
	if err != nil {
		return nil, err
	}

	return Convert(wb, opts, logger), nil
}

// ReadWorkbook loads every sheet of the workbook into memory. A sheet whose
// cells cannot be read is kept with a nil grid so it is counted as skipped.
func ReadWorkbook(path string, opts Options, logger *slog.Logger) (*models.Workbook, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	defer f.Close()

	var printAreas map[string][]models.Bounds
	if opts.UsePrintArea {
		printAreas = parser.PrintAreas(f)
	}

	wb := &models.Workbook{BookName: filepath.Base(path)}
	for _, sheetName := range f.GetSheetList() {
		var bounds *models.Bounds
		if b, ok := parser.PrintArea(printAreas, sheetName); ok {
			bounds = b
		}

		grid, err := parser.ExtractGrid(f, sheetName, bounds)
		if err != nil {
			logger.Warn("sheet.unreadable", "sheet", sheetName, "error", NewSheetError(sheetName, "grid", err))
			grid = nil
		}
		wb.Sheets = append(wb.Sheets, models.Sheet{Name: sheetName, Grid: grid})
	}

	logger.Debug("workbook.loaded", "book", wb.BookName, "sheets", len(wb.Sheets))
	return wb, nil
}

// Convert builds invoices from every sheet of an in-memory workbook, in
// workbook order, and assembles them into one batch.
func Convert(wb *models.Workbook, opts Options, logger *slog.Logger) *Result {
	if logger == nil {
		logger = slog.Default()
	}

	asm := NewAssembler(opts.now(), opts.newID, logger)
	wb.ForEachSheet(func(name string, grid *models.Grid) bool {
		logger.Debug("sheet.parsing", "sheet", name)
		if grid == nil {
			asm.Skip(name, NewSheetError(name, "grid", errors.New("sheet could not be read")))
			return true
		}
		inv, err := BuildInvoice(name, grid, opts)
		if err != nil {
			asm.Skip(name, NewSheetError(name, "invoice", err))
			return true
		}
		asm.Add(name, inv)
		return true
	})

	batch, summary := asm.Result()
	logger.Info("batch.summary",
		"book", wb.BookName,
		"total_sheets", summary.TotalSheets,
		"skipped", summary.Skipped,
		"clients", summary.Clients,
		"invoices", summary.Invoices,
		"line_items", summary.LineItems,
	)

	return &Result{BookName: wb.BookName, Batch: batch, Summary: summary}
}
