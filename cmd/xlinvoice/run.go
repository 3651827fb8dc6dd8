package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ukaji3/xlinvoice/internal/config"
	"github.com/ukaji3/xlinvoice/internal/metrics"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/output"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/policy"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/store"
)

func run(ctx context.Context, stdout, stderr io.Writer, f *flags) error {
	if f.file == "" {
		return errors.New("an input workbook is required (--file)")
	}

	cfg := &config.Config{
		Output:          f.output,
		DefaultCurrency: strings.ToUpper(f.defaultCurrency),
		Dialect:         f.dialect,
		Format:          f.format,
		Strict:          f.strict,
		UsePrintArea:    f.usePrintArea,
		HeaderScanRows:  f.headerScanRows,
		SQLitePath:      f.sqlitePath,
		PostgresDSN:     f.postgresDSN,
		MetricsFile:     f.metricsFile,
		LogFormat:       f.logFormat,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	dialect, err := output.ParseDialect(cfg.Dialect)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cfg.LogFormat, f.verbose)

	opts := xlinvoice.DefaultOptions()
	opts.DefaultCurrency = cfg.DefaultCurrency
	opts.HeaderScanRows = cfg.HeaderScanRows
	opts.UsePrintArea = cfg.UsePrintArea
	if cfg.Strict {
		opts.Policies = policy.Strict()
	}

	logger.Info("workbook.reading", "file", f.file, "policies", opts.Policies.Name)
	res, err := xlinvoice.Extract(f.file, opts, logger)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	var data []byte
	switch cfg.Format {
	case "json":
		data, err = output.ToJSON(res, f.pretty)
	default:
		data, err = output.ToSQL(&res.Batch, dialect)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	rec := metrics.New()

	if f.dryRun {
		fmt.Fprintln(stdout, string(data))
		logger.Info("dry_run", "skipped", "output file and database writes")
	} else {
		if err := os.WriteFile(cfg.Output, data, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("output.written", "path", cfg.Output, "bytes", len(data))

		if err := applyTargets(ctx, cfg, f.migrate, &res.Batch, rec, logger); err != nil {
			return err
		}
	}

	printSummary(stderr, res.Summary)

	rec.ObserveSummary(res.Summary, time.Now())
	if cfg.MetricsFile != "" {
		if err := rec.WriteFile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func applyTargets(ctx context.Context, cfg *config.Config, migrate bool, batch *models.Batch, rec *metrics.Recorder, logger *slog.Logger) error {
	type target struct {
		name string
		open func() (store.Store, error)
	}
	var targets []target
	if cfg.SQLitePath != "" {
		targets = append(targets, target{"sqlite", func() (store.Store, error) {
			return store.OpenSQLite(ctx, cfg.SQLitePath, logger)
		}})
	}
	if cfg.PostgresDSN != "" {
		targets = append(targets, target{"postgres", func() (store.Store, error) {
			return store.OpenPostgres(ctx, cfg.PostgresDSN, logger)
		}})
	}

	for _, t := range targets {
		if err := applyTarget(ctx, t.name, t.open, migrate, batch, rec, logger); err != nil {
			return err
		}
	}
	return nil
}

func applyTarget(ctx context.Context, name string, open func() (store.Store, error), migrate bool, batch *models.Batch, rec *metrics.Recorder, logger *slog.Logger) error {
	s, err := open()
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer s.Close()

	if migrate {
		if err := s.Migrate(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	counts, err := s.Write(ctx, batch)
	if errors.Is(err, xlinvoice.ErrNoStatements) {
		logger.Warn("store.nothing_to_write", "target", name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	rec.ObserveWrite(name, counts.Clients, counts.Invoices, counts.LineItems)
	return nil
}

func printSummary(w io.Writer, s models.Summary) {
	fmt.Fprintln(w, "=== Migration Summary ===")
	fmt.Fprintf(w, "Total sheets : %d\n", s.TotalSheets)
	fmt.Fprintf(w, "Skipped      : %d\n", s.Skipped)
	fmt.Fprintf(w, "Clients      : %d\n", s.Clients)
	fmt.Fprintf(w, "Invoices     : %d\n", s.Invoices)
	fmt.Fprintf(w, "Line items   : %d\n", s.LineItems)
}
