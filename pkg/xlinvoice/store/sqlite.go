package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/normalize"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/output"
	_ "modernc.org/sqlite"
)

const (
	sqliteInsertClient  = `INSERT OR IGNORE INTO clients (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	sqliteInsertInvoice = `INSERT OR IGNORE INTO invoices (id, client_id, invoice_number, issue_date, due_date, currency, total_amount, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	sqliteInsertItem = `INSERT OR IGNORE INTO invoice_items (id, invoice_id, name, quantity, unit_cost, tax_rate, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
)

// SQLiteStore writes to a SQLite database file. Values are stored as text in
// the same shape the SQL script output uses, so both load paths agree.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

// DB returns the underlying handle.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Migrate applies the embedded SQLite migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, goose.DialectSQLite3, s.db, "migrations/sqlite", s.logger)
}

// Write inserts the batch in one transaction.
func (s *SQLiteStore) Write(ctx context.Context, batch *models.Batch) (Counts, error) {
	var counts Counts
	if isEmpty(batch) {
		return counts, xlinvoice.ErrNoStatements
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return counts, fmt.Errorf("begin transaction: %w", err)
	}

	if err := writeSQLite(ctx, tx, batch, &counts); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("store.rollback_failed", "error", rbErr)
		}
		return Counts{}, err
	}
	if err := tx.Commit(); err != nil {
		return Counts{}, fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("store.written", "target", "sqlite", "rows", counts)
	return counts, nil
}

func writeSQLite(ctx context.Context, tx *sql.Tx, batch *models.Batch, counts *Counts) error {
	for _, c := range batch.Clients {
		n, err := execSQLite(ctx, tx, sqliteInsertClient,
			c.ID.String(), c.Name, output.Timestamp(c.CreatedAt), output.Timestamp(c.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert client %q: %w", c.Name, err)
		}
		counts.Clients += n
	}

	for _, inv := range batch.Invoices {
		var due any
		if inv.DueDate != nil {
			due = normalize.FormatDate(*inv.DueDate)
		}
		n, err := execSQLite(ctx, tx, sqliteInsertInvoice,
			inv.ID.String(), inv.ClientID.String(), inv.InvoiceNumber,
			normalize.FormatDate(inv.IssueDate), due, inv.Currency, inv.TotalAmount,
			inv.Status, inv.Notes, output.Timestamp(inv.CreatedAt), output.Timestamp(inv.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert invoice %q: %w", inv.InvoiceNumber, err)
		}
		counts.Invoices += n

		for _, it := range inv.Items {
			n, err := execSQLite(ctx, tx, sqliteInsertItem,
				it.ID.String(), it.InvoiceID.String(), it.Name, it.Quantity, it.UnitCost,
				it.TaxRate, it.Amount, output.Timestamp(it.CreatedAt))
			if err != nil {
				return fmt.Errorf("insert line item %q: %w", it.Name, err)
			}
			counts.LineItems += n
		}
	}
	return nil
}

func execSQLite(ctx context.Context, tx *sql.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
