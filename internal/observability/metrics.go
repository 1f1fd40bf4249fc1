package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, gauges, and histograms for one report run.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead    prometheus.Counter
	RowsSkipped *prometheus.CounterVec // labels: reason={jurisdiction,facility,window}
	RowsMatched *prometheus.CounterVec // labels: validity={valid,invalid}
	Sites       *prometheus.GaugeVec   // labels: status={updated,not_updated}
	RunDuration prometheus.Histogram
}

// NewMetrics creates the run metrics on a private registry so repeated runs
// in one process never collide.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nwss_report",
			Name:      "rows_read_total",
			Help:      "Total rows read from the input file.",
		}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nwss_report",
			Name:      "rows_skipped_total",
			Help:      "Rows excluded by a filter or the date window, by reason.",
		}, []string{"reason"}),
		RowsMatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nwss_report",
			Name:      "rows_matched_total",
			Help:      "Rows inside the date window, by data validity.",
		}, []string{"validity"}),
		Sites: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "nwss_report",
			Name:      "sites",
			Help:      "Sites found in the window, by update status.",
		}, []string{"status"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nwss_report",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete read-group-aggregate run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.RowsSkipped,
		m.RowsMatched,
		m.Sites,
		m.RunDuration,
	)

	return m
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
