// Package metrics exposes Prometheus collectors for uploads, normalization
// outcomes and exports.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/csv2sendy/internal/core"
)

const namespace = "csv2sendy"

// Result label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics holds the application collectors. A nil *Metrics is valid and
// records nothing, so callers need not check whether metrics are enabled.
type Metrics struct {
	reg *prometheus.Registry

	uploads           *prometheus.CounterVec
	records           *prometheus.CounterVec
	exports           *prometheus.CounterVec
	duplicatesRemoved prometheus.Counter
	normalizeDuration prometheus.Histogram
}

func registerCollector(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil
		}
		return fmt.Errorf("register collector: %w", err)
	}
	return nil
}

// New creates the collectors on a fresh registry together with the Go and
// process collectors.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Uploaded files by result",
		}, []string{"result"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Input rows by normalization outcome",
		}, []string{"outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Exports by result",
		}, []string{"result"}),
		duplicatesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_duplicates_removed_total",
			Help:      "Rows dropped by email deduplication during export",
		}),
		normalizeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "normalize_duration_seconds",
			Help:      "Time spent decoding and normalizing one upload",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uploads, m.records, m.exports, m.duplicatesRemoved, m.normalizeDuration,
	} {
		if err := registerCollector(reg, c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveUpload records one upload. A nil table means it failed with result.
func (m *Metrics) ObserveUpload(result string, table *core.Table, took time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
	if table == nil {
		return
	}
	m.normalizeDuration.Observe(took.Seconds())
	s := table.Stats
	m.records.WithLabelValues("kept").Add(float64(s.KeptRows))
	m.records.WithLabelValues("blank").Add(float64(s.BlankRows))
	m.records.WithLabelValues("invalid_email").Add(float64(s.InvalidEmailRows))
}

// ObserveExport records one export.
func (m *Metrics) ObserveExport(result string, p *core.Projection) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(result).Inc()
	if p != nil {
		m.duplicatesRemoved.Add(float64(p.DuplicatesRemoved))
	}
}
