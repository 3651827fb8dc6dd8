package xlinvoice

import (
	"fmt"
	"time"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/locate"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/policy"
)

// notesPrefix marks the provenance of migrated invoices.
const notesPrefix = "Migrated from sheet: "

// BuildInvoice reads one sheet into an invoice record. It returns
// ErrNotInvoice when the sheet has no line items and its total is zero or
// missing, and ErrAmountOutOfRange when a line or total amount does not fit
// in an int64. Identifiers and timestamps are left for the Assembler.
func BuildInvoice(sheetName string, g *models.Grid, opts Options) (*models.Invoice, error) {
	ks := opts.Keywords

	number := locate.ExtractNear(g, ks.InvoiceNumber)
	issue, hasIssue := locate.ExtractDate(g, ks.IssueDate)
	due, hasDue := locate.ExtractDate(g, ks.DueDate)
	total := opts.Symbols.Parse(locate.ExtractNear(g, ks.Total), opts.defaultCurrency())

	table, _ := opts.detector().Detect(g)
	if len(table.OutOfRange) > 0 {
		return nil, fmt.Errorf("%w: line item rows %v", ErrAmountOutOfRange, table.OutOfRange)
	}
	items := table.Items

	if len(items) == 0 && total.Value == 0 {
		return nil, ErrNotInvoice
	}

	if number == "" {
		number = sheetName
	}
	if !hasIssue {
		issue = dateOnly(opts.now())
	}

	totalFn := opts.Policies.Total
	if totalFn == nil {
		totalFn = policy.ZeroTotalMeansAbsent
	}

	totalAmount, err := totalFn(total.Value, items)
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	inv := &models.Invoice{
		InvoiceNumber: number,
		IssueDate:     dateOnly(issue),
		Currency:      total.Code,
		TotalAmount:   totalAmount,
		Status:        models.StatusPaid,
		Notes:         notesPrefix + sheetName,
		Items:         items,
		SheetName:     sheetName,
	}
	if hasDue {
		d := dateOnly(due)
		inv.DueDate = &d
	}
	return inv, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
