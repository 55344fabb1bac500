// Package metrics exposes dashboard activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/freightdash/internal/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the collectors on a private prometheus registry.
// It implements core.Observer.
type Registry struct {
	reg *prometheus.Registry

	Mutations    *prometheus.CounterVec
	Imports      *prometheus.CounterVec
	RowsImported prometheus.Counter
	RowsSkipped  prometheus.Counter
	Exports      prometheus.Counter
	ExportedRows prometheus.Counter
	SeedLoadSec  prometheus.Histogram
	SeedFailures prometheus.Counter
	Records      *prometheus.GaugeVec
}

var _ core.Observer = (*Registry)(nil)

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_mutations_total",
		Help: "Applied create, update, delete and status changes.",
	}, []string{"entity", "op"})
	imports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "freight_csv_imports_total",
		Help: "CSV imports by outcome.",
	}, []string{"result"})
	rowsImported := prometheus.NewCounter(prometheus.CounterOpts{Name: "freight_csv_rows_imported_total", Help: "Loads appended by CSV imports."})
	rowsSkipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "freight_csv_rows_skipped_total", Help: "CSV rows skipped during import."})
	exports := prometheus.NewCounter(prometheus.CounterOpts{Name: "freight_csv_exports_total", Help: "CSV exports served."})
	exportedRows := prometheus.NewCounter(prometheus.CounterOpts{Name: "freight_csv_rows_exported_total", Help: "Loads written to CSV exports."})
	seedLoad := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "freight_seed_load_seconds",
		Help:    "Duration of successful startup data loads.",
		Buckets: prometheus.DefBuckets,
	})
	seedFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "freight_seed_load_failures_total", Help: "Failed startup data loads."})
	records := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "freight_records",
		Help: "Records currently held per entity.",
	}, []string{"entity"})

	r.MustRegister(mutations, imports, rowsImported, rowsSkipped, exports, exportedRows, seedLoad, seedFailures, records)
	return &Registry{
		reg:          r,
		Mutations:    mutations,
		Imports:      imports,
		RowsImported: rowsImported,
		RowsSkipped:  rowsSkipped,
		Exports:      exports,
		ExportedRows: exportedRows,
		SeedLoadSec:  seedLoad,
		SeedFailures: seedFailures,
		Records:      records,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// MutationApplied implements core.Observer.
func (r *Registry) MutationApplied(entity string, action core.Action) {
	r.Mutations.WithLabelValues(entity, string(action)).Inc()
}

// ImportFinished implements core.Observer.
func (r *Registry) ImportFinished(result string, imported, skipped int) {
	r.Imports.WithLabelValues(result).Inc()
	r.RowsImported.Add(float64(imported))
	r.RowsSkipped.Add(float64(skipped))
}

// ExportFinished implements core.Observer.
func (r *Registry) ExportFinished(rows int) {
	r.Exports.Inc()
	r.ExportedRows.Add(float64(rows))
}

// SeedLoaded records a startup load attempt. A nil err observes d.
func (r *Registry) SeedLoaded(d time.Duration, err error) {
	if err != nil {
		r.SeedFailures.Inc()
		return
	}
	r.SeedLoadSec.Observe(d.Seconds())
}

// SetRecords sets the current record count of entity.
func (r *Registry) SetRecords(entity string, n int) {
	r.Records.WithLabelValues(entity).Set(float64(n))
}
