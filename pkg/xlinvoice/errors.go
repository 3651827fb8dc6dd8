package xlinvoice

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a valid xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrNotInvoice indicates a sheet has neither a nonzero total nor any line items.
var ErrNotInvoice = errors.New("no invoice data found")

// ErrAmountOutOfRange indicates a money amount that does not fit in an int64.
var ErrAmountOutOfRange = normalize.ErrAmountOutOfRange

// ErrUnsupportedDialect indicates an unknown SQL dialect name.
var ErrUnsupportedDialect = errors.New("unsupported SQL dialect")

// ErrNoStatements indicates a batch with nothing to write.
var ErrNoStatements = errors.New("no records to write")

// SheetError represents a failure confined to one sheet.
type SheetError struct {
	SheetName string
	Component string // "grid", "invoice"
	Err       error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(sheetName, component string, err error) *SheetError {
	return &SheetError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
