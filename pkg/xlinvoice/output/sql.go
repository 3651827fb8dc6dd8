// Package output serializes assembled batches as SQL insert scripts or JSON.
package output

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/xlinvoice/pkg/xlinvoice"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
)

// TimestampLayout is the layout of created_at and updated_at values.
const TimestampLayout = "2006-01-02T15:04:05"

// Dialect selects the conflict-ignore insert syntax.
type Dialect string

const (
	// SQLite emits INSERT OR IGNORE, accepted by SQLite and Cloudflare D1.
	SQLite Dialect = "sqlite"
	// Postgres emits INSERT ... ON CONFLICT DO NOTHING.
	Postgres Dialect = "postgres"
)

// ParseDialect resolves a dialect name. The empty string means SQLite.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3", "d1":
		return SQLite, nil
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	}
	return "", fmt.Errorf("%w: %q", xlinvoice.ErrUnsupportedDialect, name)
}

const (
	clientColumns  = "id, name, created_at, updated_at"
	invoiceColumns = "id, client_id, invoice_number, issue_date, due_date, currency, total_amount, status, notes, created_at, updated_at"
	itemColumns    = "id, invoice_id, name, quantity, unit_cost, tax_rate, amount, created_at"
)

// ToSQL renders the batch as one transaction of insert statements grouped
// into clients, invoices and invoice items. Existing rows with the same id
// are left untouched.
func ToSQL(batch *models.Batch, dialect Dialect) ([]byte, error) {
	if dialect != SQLite && dialect != Postgres {
		return nil, fmt.Errorf("%w: %q", xlinvoice.ErrUnsupportedDialect, string(dialect))
	}

	var b strings.Builder
	b.WriteString("BEGIN TRANSACTION;\n\n")

	section(&b, "Clients")
	for _, c := range batch.Clients {
		insert(&b, dialect, "clients", clientColumns,
			Quote(c.ID.String()),
			Quote(c.Name),
			Quote(Timestamp(c.CreatedAt)),
			Quote(Timestamp(c.UpdatedAt)),
		)
	}

	b.WriteString("\n")
	section(&b, "Invoices")
	for _, inv := range batch.Invoices {
		due := "NULL"
		if inv.DueDate != nil {
			due = Quote(normalize.FormatDate(*inv.DueDate))
		}
		insert(&b, dialect, "invoices", invoiceColumns,
			Quote(inv.ID.String()),
			Quote(inv.ClientID.String()),
			Quote(inv.InvoiceNumber),
			Quote(normalize.FormatDate(inv.IssueDate)),
			due,
			Quote(inv.Currency),
			strconv.FormatInt(inv.TotalAmount, 10),
			Quote(inv.Status),
			Quote(inv.Notes),
			Quote(Timestamp(inv.CreatedAt)),
			Quote(Timestamp(inv.UpdatedAt)),
		)
	}

	b.WriteString("\n")
	section(&b, "Invoice Items")
	for _, it := range batch.Items() {
		insert(&b, dialect, "invoice_items", itemColumns,
			Quote(it.ID.String()),
			Quote(it.InvoiceID.String()),
			Quote(it.Name),
			Real(it.Quantity),
			Real(it.UnitCost),
			Real(it.TaxRate),
			strconv.FormatInt(it.Amount, 10),
			Quote(Timestamp(it.CreatedAt)),
		)
	}

	b.WriteString("\nCOMMIT;")
	return []byte(b.String()), nil
}

func section(b *strings.Builder, title string) {
	b.WriteString("-- =====================\n")
	b.WriteString("-- " + title + "\n")
	b.WriteString("-- =====================\n")
}

func insert(b *strings.Builder, dialect Dialect, table, columns string, values ...string) {
	switch dialect {
	case Postgres:
		fmt.Fprintf(b, "INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING;\n",
			table, columns, strings.Join(values, ", "))
	default:
		fmt.Fprintf(b, "INSERT OR IGNORE INTO %s (%s) VALUES (%s);\n",
			table, columns, strings.Join(values, ", "))
	}
}

// Quote renders s as a single-quoted SQL literal with embedded quotes doubled.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Real renders a REAL column value, always with a decimal point ("2.0", "0.1").
func Real(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// Timestamp renders t as a second-precision local timestamp without zone.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
