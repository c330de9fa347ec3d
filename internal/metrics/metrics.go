package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signal_bot/internal/models"
)

// Metrics — метрики движка. nil-safe: без метрик методы ничего не делают.
type Metrics struct {
	reg prometheus.Gatherer

	SignalsTotal    *prometheus.CounterVec // labels: strategy, action
	FailuresTotal   *prometheus.CounterVec // labels: kind
	EvalDuration    prometheus.Histogram
	BatchDuration   prometheus.Histogram
	BatchSymbols    prometheus.Gauge
	SinkErrorsTotal *prometheus.CounterVec // labels: sink
}

// Виды отказов для FailuresTotal.
const (
	FailureData     = "data_provider"
	FailureStrategy = "unknown_strategy"
	FailurePanic    = "panic"
	FailureCancel   = "cancelled"
)

func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		reg: reg,
		SignalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "signals_total", Help: "Signals produced by strategy and action"},
			[]string{"strategy", "action"},
		),
		FailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "evaluation_failures_total", Help: "Per-symbol evaluation failures degraded to WAIT"},
			[]string{"kind"},
		),
		EvalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "symbol_evaluation_seconds",
			Help:    "Fetch plus analyze time for one symbol",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "batch_evaluation_seconds",
			Help:    "Time for a whole batch to settle",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		BatchSymbols: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "batch_symbols",
			Help: "Symbols in the last batch",
		}),
		SinkErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "sink_errors_total", Help: "Signals a sink failed to accept"},
			[]string{"sink"},
		),
	}
	reg.MustRegister(m.SignalsTotal, m.FailuresTotal, m.EvalDuration, m.BatchDuration, m.BatchSymbols, m.SinkErrorsTotal)
	return m
}

func (m *Metrics) ObserveSignal(s models.Signal) {
	if m == nil {
		return
	}
	m.SignalsTotal.WithLabelValues(s.Strategy, string(s.Action)).Inc()
}

func (m *Metrics) ObserveFailure(kind string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveEval(d time.Duration) {
	if m == nil {
		return
	}
	m.EvalDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveBatch(symbols int, d time.Duration) {
	if m == nil {
		return
	}
	m.BatchSymbols.Set(float64(symbols))
	m.BatchDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveSinkError(sink string) {
	if m == nil {
		return
	}
	m.SinkErrorsTotal.WithLabelValues(sink).Inc()
}

// Handler — /metrics для health-мукса.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
