package output

import (
	"encoding/json"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
)

// Document is the JSON shape of a conversion result.
type Document struct {
	BookName string          `json:"book_name"`
	Summary  models.Summary  `json:"summary"`
	Clients  []models.Client `json:"clients"`
	Invoices []Invoice       `json:"invoices"`
}

// Invoice renders issue and due dates as ISO dates, matching the SQL output.
type Invoice struct {
	models.Invoice
	IssueDate string  `json:"issue_date"`
	DueDate   *string `json:"due_date"`
}

func newInvoice(inv models.Invoice) Invoice {
	out := Invoice{
		Invoice:   inv,
		IssueDate: normalize.FormatDate(inv.IssueDate),
	}
	if inv.DueDate != nil {
		due := normalize.FormatDate(*inv.DueDate)
		out.DueDate = &due
	}
	return out
}

// NewDocument wraps a conversion result for JSON output.
func NewDocument(res *xlinvoice.Result) Document {
	doc := Document{
		BookName: res.BookName,
		Summary:  res.Summary,
		Clients:  res.Batch.Clients,
		Invoices: make([]Invoice, 0, len(res.Batch.Invoices)),
	}
	if doc.Clients == nil {
		doc.Clients = []models.Client{}
	}
	for _, inv := range res.Batch.Invoices {
		doc.Invoices = append(doc.Invoices, newInvoice(inv))
	}
	return doc
}

// ToJSON serializes a conversion result to JSON.
func ToJSON(res *xlinvoice.Result, pretty bool) ([]byte, error) {
	doc := NewDocument(res)
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
