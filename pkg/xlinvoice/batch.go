package xlinvoice

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
)

// Assembler groups invoices by inferred client, assigns identifiers and
// keeps the run counters. It is not safe for concurrent use.
type Assembler struct {
	logger  *slog.Logger
	now     time.Time
	newID   func() uuid.UUID
	clients map[string]int // inferred name -> index into batch.Clients
	batch   models.Batch
	summary models.Summary
}

// NewAssembler returns an Assembler that stamps every record with now.
func NewAssembler(now time.Time, newID func() uuid.UUID, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if newID == nil {
		newID = uuid.New
	}
	return &Assembler{
		logger:  logger,
		now:     now,
		newID:   newID,
		clients: make(map[string]int),
	}
}

// Add registers an invoice built from sheetName. The invoice and its items
// receive identifiers and the run timestamp.
func (a *Assembler) Add(sheetName string, inv *models.Invoice) {
	a.summary.TotalSheets++

	client := a.client(InferClientName(sheetName))

	inv.ID = a.newID()
	inv.ClientID = client.ID
	inv.CreatedAt = a.now
	inv.UpdatedAt = a.now
	for i := range inv.Items {
		inv.Items[i].ID = a.newID()
		inv.Items[i].InvoiceID = inv.ID
		inv.Items[i].CreatedAt = a.now
	}

	a.batch.Invoices = append(a.batch.Invoices, *inv)
	a.summary.Invoices++
	a.summary.LineItems += len(inv.Items)

	a.logger.Info("sheet.parsed",
		"sheet", sheetName,
		"client", client.Name,
		"invoice_number", inv.InvoiceNumber,
		"items", len(inv.Items),
		"total", inv.TotalAmount,
		"currency", inv.Currency,
	)
}

// Skip records a sheet that produced no invoice.
func (a *Assembler) Skip(sheetName string, err error) {
	a.summary.TotalSheets++
	a.summary.Skipped++
	a.summary.SkippedSheets = append(a.summary.SkippedSheets, sheetName)

	if errors.Is(err, ErrNotInvoice) {
		a.logger.Warn("sheet.skipped", "sheet", sheetName, "reason", err.Error())
		return
	}
	a.logger.Error("sheet.failed", "sheet", sheetName, "error", err)
}

func (a *Assembler) client(name string) models.Client {
	if idx, ok := a.clients[name]; ok {
		return a.batch.Clients[idx]
	}
	c := models.Client{
		ID:        a.newID(),
		Name:      name,
		CreatedAt: a.now,
		UpdatedAt: a.now,
	}
	a.clients[name] = len(a.batch.Clients)
	a.batch.Clients = append(a.batch.Clients, c)
	a.summary.Clients++
	return c
}

// Result returns the assembled batch and run summary.
func (a *Assembler) Result() (models.Batch, models.Summary) {
	return a.batch, a.summary
}
