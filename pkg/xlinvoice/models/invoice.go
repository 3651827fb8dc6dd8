package models

import (
	"time"

	"github.com/google/uuid"
)

// StatusPaid is the status assigned to every migrated invoice.
const StatusPaid = "paid"

// LineItem is one row of an invoice's item table.
type LineItem struct {
	ID        uuid.UUID `json:"id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	UnitCost  float64   `json:"unit_cost"`
	// TaxRate is a fraction, 0.1 meaning 10%.
	TaxRate float64 `json:"tax_rate"`
	// Amount is floor(UnitCost * Quantity * (1 + TaxRate)).
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Invoice is the canonical record built from one sheet.
type Invoice struct {
	ID            uuid.UUID  `json:"id"`
	ClientID      uuid.UUID  `json:"client_id"`
	InvoiceNumber string     `json:"invoice_number"`
	IssueDate     time.Time  `json:"issue_date"`
	DueDate       *time.Time `json:"due_date"`
	Currency      string     `json:"currency"`
	TotalAmount   int64      `json:"total_amount"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes"`
	Items         []LineItem `json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// SheetName is the worksheet the invoice was read from.
	SheetName string `json:"sheet_name"`
}

// Client groups invoices whose sheets infer the same business name.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Batch is the result of one conversion run.
type Batch struct {
	Clients  []Client  `json:"clients"`
	Invoices []Invoice `json:"invoices"`
}

// Items returns every line item across invoices in emission order.
func (b *Batch) Items() []LineItem {
	var out []LineItem
	for _, inv := range b.Invoices {
		out = append(out, inv.Items...)
	}
	return out
}

// Summary counts what a run produced.
type Summary struct {
	TotalSheets   int      `json:"total_sheets"`
	Skipped       int      `json:"skipped"`
	Clients       int      `json:"clients"`
	Invoices      int      `json:"invoices"`
	LineItems     int      `json:"line_items"`
	SkippedSheets []string `json:"skipped_sheets,omitempty"`
}
