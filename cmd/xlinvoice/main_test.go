package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlinvoice/internal/config"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice"
	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Acme Corp 2024-01"))
	rows := [][]any{
		{"Invoice No", "INV-1"},
		{"Invoice Date", "2024-01-31"},
		{},
		{"Description", "Qty", "Unit Price", "Tax"},
		{"Widget", 2, 10.0, "10%"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Acme Corp 2024-01", cell, &row))
	}
	_, err := f.NewSheet("Scratch")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Scratch", "A1", "todo"))

	path := filepath.Join(t.TempDir(), "invoices.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(config.FromEnv())
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRun_DryRun(t *testing.T) {
	path := writeFixture(t)
	out := filepath.Join(t.TempDir(), "migration.sql")

	stdout, stderr, err := execute(t, "--file", path, "--output", out, "--dry-run")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, "BEGIN TRANSACTION;"))
	assert.Contains(t, stdout, "INSERT OR IGNORE INTO clients (id, name, created_at, updated_at) VALUES (")
	assert.Contains(t, stdout, "'Acme Corp'")
	assert.Contains(t, stdout, "'INV-1', '2024-01-31', NULL, 'USD', 22, 'paid'")
	assert.Contains(t, stderr, "Skipped      : 1")
	assert.NoFileExists(t, out)
}

func TestRun_WritesOutputAndSQLite(t *testing.T) {
	path := writeFixture(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "migration.sql")
	dbPath := filepath.Join(dir, "invoices.db")
	promPath := filepath.Join(dir, "xlinvoice.prom")

	_, _, err := execute(t, path, "--output", out, "--sqlite", dbPath, "--migrate", "--metrics-file", promPath)
	require.NoError(t, err)

	script, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(script), "COMMIT;"))

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()
	var amount int64
	require.NoError(t, db.QueryRow(`SELECT amount FROM invoice_items WHERE name = 'Widget'`).Scan(&amount))
	assert.Equal(t, int64(22), amount)

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "xlinvoice_sheets_skipped_total 1")
	assert.Contains(t, string(prom), `xlinvoice_rows_written_total{table="invoice_items",target="sqlite"} 1`)
}

func TestRun_JSON(t *testing.T) {
	path := writeFixture(t)

	stdout, _, err := execute(t, "--file", path, "--format", "json", "--dry-run", "--postgres", "postgres://unused")
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			Invoices int `json:"invoices"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, 1, doc.Summary.Invoices)
}

func TestRun_PostgresDialect(t *testing.T) {
	path := writeFixture(t)

	stdout, _, err := execute(t, "--file", path, "--dialect", "postgres", "--dry-run", "--strict")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ON CONFLICT DO NOTHING;")
}

func TestRun_MissingFile(t *testing.T) {
	_, _, err := execute(t, "--file", filepath.Join(t.TempDir(), "nope.xlsx"), "--dry-run")
	require.Error(t, err)
	assert.True(t, errors.Is(err, xlinvoice.ErrFileNotFound))
}

func TestRun_RequiresFile(t *testing.T) {
	_, _, err := execute(t, "--dry-run")
	assert.Error(t, err)
}

func TestRun_InvalidFlags(t *testing.T) {
	path := writeFixture(t)

	_, _, err := execute(t, "--file", path, "--dialect", "oracle", "--dry-run")
	assert.True(t, errors.Is(err, xlinvoice.ErrUnsupportedDialect))

	_, _, err = execute(t, "--file", path, "--default-currency", "dollars", "--dry-run")
	assert.Error(t, err)
}
