// Package metrics exposes Prometheus instrumentation for backtest runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	backtestsTotal   *prometheus.CounterVec
	backtestDuration prometheus.Histogram
	tradesExecuted   *prometheus.CounterVec
	barsProcessed    prometheus.Counter
	dataFetches      *prometheus.CounterVec
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		backtestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trademaster_backtests_total",
				Help: "Total number of backtest runs",
			},
			[]string{"status"},
		),

		backtestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "trademaster_backtest_duration_seconds",
				Help:    "Backtest run duration in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),

		tradesExecuted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trademaster_trades_executed_total",
				Help: "Total number of simulated trades",
			},
			[]string{"direction"},
		),

		barsProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "trademaster_bars_processed_total",
				Help: "Total number of daily bars fed to strategies",
			},
		),

		dataFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trademaster_data_fetches_total",
				Help: "Total number of data source requests",
			},
			[]string{"kind", "status"},
		),
	}

	reg.MustRegister(r.backtestsTotal)
	reg.MustRegister(r.backtestDuration)
	reg.MustRegister(r.tradesExecuted)
	reg.MustRegister(r.barsProcessed)
	reg.MustRegister(r.dataFetches)

	return r
}

// RecordBacktest records a backtest completion.
func (r *Registry) RecordBacktest(status string, duration float64) {
	r.backtestsTotal.WithLabelValues(status).Inc()
	r.backtestDuration.Observe(duration)
}

// RecordTrade records one simulated trade.
func (r *Registry) RecordTrade(direction string) {
	r.tradesExecuted.WithLabelValues(direction).Inc()
}

// RecordBarsProcessed records bars handed to a strategy for one day.
func (r *Registry) RecordBarsProcessed(n int) {
	r.barsProcessed.Add(float64(n))
}

// RecordDataFetch records one data source request.
func (r *Registry) RecordDataFetch(kind string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.dataFetches.WithLabelValues(kind, status).Inc()
}
