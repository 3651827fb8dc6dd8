// Package main provides the CLI entry point for xlinvoice.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/xlinvoice/internal/config"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// flags holds the command line, seeded from the environment config.
type flags struct {
	file            string
	output          string
	dryRun          bool
	defaultCurrency string
	dialect         string
	format          string
	pretty          bool
	strict          bool
	usePrintArea    bool
	headerScanRows  int
	sqlitePath      string
	postgresDSN     string
	migrate         bool
	metricsFile     string
	logFormat       string
	verbose         bool
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "xlinvoice --file invoices.xlsx",
		Short: "Convert invoice workbooks into SQL insert statements",
		Long: `xlinvoice reads every sheet of an invoice workbook, extracts the client,
invoice header and line items, and writes them as SQL inserts (SQLite/D1 or
PostgreSQL) or JSON. It can also load the records straight into a database.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.file == "" && len(args) == 1 {
				f.file = args[0]
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), f)
		},
	}

	fl := rootCmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "Excel workbook to convert (.xlsx)")
	fl.StringVarP(&f.output, "output", "o", cfg.Output, "Output file path")
	fl.BoolVar(&f.dryRun, "dry-run", false, "Print the output instead of writing files or databases")
	fl.StringVar(&f.defaultCurrency, "default-currency", cfg.DefaultCurrency, "Currency code for amounts without a symbol")
	fl.StringVar(&f.dialect, "dialect", cfg.Dialect, "SQL dialect: sqlite, postgres")
	fl.StringVar(&f.format, "format", cfg.Format, "Output format: sql, json")
	fl.BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	fl.BoolVar(&f.strict, "strict", cfg.Strict, "Keep zero totals and missing unit prices as read")
	fl.BoolVar(&f.usePrintArea, "use-print-area", cfg.UsePrintArea, "Only read cells inside each sheet's print area")
	fl.IntVar(&f.headerScanRows, "header-scan-rows", cfg.HeaderScanRows, "Rows searched for the line-item header")
	fl.StringVar(&f.sqlitePath, "sqlite", cfg.SQLitePath, "Also insert into this SQLite database file")
	fl.StringVar(&f.postgresDSN, "postgres", cfg.PostgresDSN, "Also insert into this PostgreSQL database (DSN)")
	fl.BoolVar(&f.migrate, "migrate", false, "Create or upgrade the target tables before inserting")
	fl.StringVar(&f.metricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file")
	fl.StringVar(&f.logFormat, "log-format", cfg.LogFormat, "Log format: text, json")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	return rootCmd
}

func newLogger(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
