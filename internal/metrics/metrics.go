// Package metrics records conversion counters on a private Prometheus
// registry and writes them in the text exposition format, for node_exporter's
// textfile collector or a push step after the batch run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ukaji3/xlinvoice/pkg/xlinvoice/models"
)

// Recorder holds the run counters.
type Recorder struct {
	registry *prometheus.Registry

	// SheetsTotal counts sheets examined
	SheetsTotal prometheus.Counter
	// SheetsSkipped counts sheets that produced no invoice
	SheetsSkipped prometheus.Counter
	// InvoicesTotal counts invoices emitted
	InvoicesTotal prometheus.Counter
	// LineItemsTotal counts line items emitted
	LineItemsTotal prometheus.Counter
	// ClientsTotal counts distinct clients emitted
	ClientsTotal prometheus.Counter
	// RowsWritten counts rows inserted into a database target
	RowsWritten *prometheus.CounterVec
	// LastRun is the completion time of the last run
	LastRun prometheus.Gauge
}

// New creates a Recorder on its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		SheetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "xlinvoice_sheets_total",
			Help: "Total number of worksheets examined",
		}),
		SheetsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "xlinvoice_sheets_skipped_total",
			Help: "Worksheets skipped because no invoice data was found",
		}),
		InvoicesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "xlinvoice_invoices_total",
			Help: "Invoices extracted",
		}),
		LineItemsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "xlinvoice_line_items_total",
			Help: "Invoice line items extracted",
		}),
		ClientsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "xlinvoice_clients_total",
			Help: "Distinct clients inferred from sheet names",
		}),
		RowsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "xlinvoice_rows_written_total",
			Help: "Rows inserted into a database target",
		}, []string{"target", "table"}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "xlinvoice_last_run_timestamp_seconds",
			Help: "Unix time the last conversion finished",
		}),
	}
}

// ObserveSummary adds a run summary to the counters.
func (r *Recorder) ObserveSummary(s models.Summary, finished time.Time) {
	r.SheetsTotal.Add(float64(s.TotalSheets))
	r.SheetsSkipped.Add(float64(s.Skipped))
	r.InvoicesTotal.Add(float64(s.Invoices))
	r.LineItemsTotal.Add(float64(s.LineItems))
	r.ClientsTotal.Add(float64(s.Clients))
	r.LastRun.Set(float64(finished.Unix()))
}

// ObserveWrite records rows inserted into target.
func (r *Recorder) ObserveWrite(target string, clients, invoices, items int64) {
	r.RowsWritten.WithLabelValues(target, "clients").Add(float64(clients))
	r.RowsWritten.WithLabelValues(target, "invoices").Add(float64(invoices))
	r.RowsWritten.WithLabelValues(target, "invoice_items").Add(float64(items))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteFile writes all metrics to path atomically.
func (r *Recorder) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
