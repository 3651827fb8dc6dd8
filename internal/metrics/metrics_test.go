package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
)

func TestRecorder_ObserveSummary(t *testing.T) {
	r := New()
	finished := time.Unix(1_750_000_000, 0)

	r.ObserveSummary(models.Summary{TotalSheets: 5, Skipped: 1, Clients: 2, Invoices: 4, LineItems: 9}, finished)

	assert.Equal(t, 5.0, testutil.ToFloat64(r.SheetsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.SheetsSkipped))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.InvoicesTotal))
	assert.Equal(t, 9.0, testutil.ToFloat64(r.LineItemsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.ClientsTotal))
	assert.Equal(t, 1_750_000_000.0, testutil.ToFloat64(r.LastRun))
}

func TestRecorder_ObserveWrite(t *testing.T) {
	r := New()
	r.ObserveWrite("sqlite", 1, 2, 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.RowsWritten.WithLabelValues("sqlite", "invoices")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.RowsWritten.WithLabelValues("sqlite", "invoice_items")))
}

func TestRecorder_WriteFile(t *testing.T) {
	r := New()
	r.ObserveSummary(models.Summary{TotalSheets: 3, Invoices: 2}, time.Now())

	path := filepath.Join(t.TempDir(), "xlinvoice.prom")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "xlinvoice_sheets_total 3")
	assert.Contains(t, string(data), "xlinvoice_invoices_total 2")
	assert.Contains(t, string(data), "# TYPE xlinvoice_last_run_timestamp_seconds gauge")
}
