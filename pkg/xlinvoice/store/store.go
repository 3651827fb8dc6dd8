// Package store writes assembled batches straight into a target database.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
)

//go:embed migrations
var migrationsFS embed.FS

// Store is a database that accepts converted batches.
type Store interface {
	// Migrate creates or upgrades the clients, invoices and invoice_items tables.
	Migrate(ctx context.Context) error
	// Write inserts the batch in one transaction. Rows whose id already exists are left alone.
	Write(ctx context.Context, batch *models.Batch) (Counts, error)
	Close() error
}

// Counts reports how many rows a Write inserted.
type Counts struct {
	Clients   int64
	Invoices  int64
	LineItems int64
}

// LogValue implements slog.LogValuer, logging the counts as a group.
func (c Counts) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("clients", c.Clients),
		slog.Int64("invoices", c.Invoices),
		slog.Int64("line_items", c.LineItems),
	)
}

func runMigrations(ctx context.Context, dialect goose.Dialect, db *sql.DB, dir string, logger *slog.Logger) error {
	fsys, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migrations %s: %w", dir, err)
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, r := range results {
		logger.Info("store.migrated", "version", r.Source.Version, "path", r.Source.Path, "duration", r.Duration)
	}
	return nil
}

func isEmpty(batch *models.Batch) bool {
	return len(batch.Clients) == 0 && len(batch.Invoices) == 0
}
