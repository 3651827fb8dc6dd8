package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
)

const (
	pgInsertClient = `INSERT INTO clients (id, name, created_at, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`
	pgInsertInvoice = `INSERT INTO invoices (id, client_id, invoice_number, issue_date, due_date, currency, total_amount, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING`
	pgInsertItem = `INSERT INTO invoice_items (id, invoice_id, name, quantity, unit_cost, tax_rate, amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`
)

// PgxPool abstracts the subset of pgxpool.Pool used by the store to allow mocking in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Close()
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// PostgresStore writes to PostgreSQL through pgx.
type PostgresStore struct {
	pool   PgxPool
	logger *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

// OpenPostgres connects to the database at dsn.
func OpenPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(pool, logger), nil
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pool PgxPool, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, logger: logger}
}

// Migrate applies the embedded PostgreSQL migrations. It needs a real
// *pgxpool.Pool since goose runs over database/sql.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	pool, ok := s.pool.(*pgxpool.Pool)
	if !ok {
		return errors.New("postgres migrations require a *pgxpool.Pool")
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return runMigrations(ctx, goose.DialectPostgres, db, "migrations/postgres", s.logger)
}

// Write inserts the batch in one transaction.
func (s *PostgresStore) Write(ctx context.Context, batch *models.Batch) (Counts, error) {
	var counts Counts
	if isEmpty(batch) {
		return counts, xlinvoice.ErrNoStatements
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return counts, fmt.Errorf("begin transaction: %w", err)
	}

	if err := writePostgres(ctx, tx, batch, &counts); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.logger.Error("store.rollback_failed", "error", rbErr)
		}
		return Counts{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Counts{}, fmt.Errorf("commit: %w", err)
	}

	s.logger.Info("store.written", "target", "postgres", "rows", counts)
	return counts, nil
}

func writePostgres(ctx context.Context, tx pgx.Tx, batch *models.Batch, counts *Counts) error {
	for _, c := range batch.Clients {
		tag, err := tx.Exec(ctx, pgInsertClient, c.ID, c.Name, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert client %q: %w", c.Name, err)
		}
		counts.Clients += tag.RowsAffected()
	}

	for _, inv := range batch.Invoices {
		tag, err := tx.Exec(ctx, pgInsertInvoice,
			inv.ID, inv.ClientID, inv.InvoiceNumber, inv.IssueDate, inv.DueDate,
			inv.Currency, inv.TotalAmount, inv.Status, inv.Notes, inv.CreatedAt, inv.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert invoice %q: %w", inv.InvoiceNumber, err)
		}
		counts.Invoices += tag.RowsAffected()

		for _, it := range inv.Items {
			tag, err := tx.Exec(ctx, pgInsertItem,
				it.ID, it.InvoiceID, it.Name, it.Quantity, it.UnitCost, it.TaxRate, it.Amount, it.CreatedAt)
			if err != nil {
				return fmt.Errorf("insert line item %q: %w", it.Name, err)
			}
			counts.LineItems += tag.RowsAffected()
		}
	}
	return nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
