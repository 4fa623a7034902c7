package executor

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects Prometheus counters/gauges describing a Pool's
// scheduling activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	scheduled prometheus.Counter
	run       prometheus.Counter
	fallback  prometheus.Counter
	workers   prometheus.Gauge
}

// NewMetrics builds a Metrics and registers it against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "executor_runnables_scheduled_total",
			Help: "Total number of Runnables accepted by Pool.Schedule.",
		}),
		run: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "executor_runnables_run_total",
			Help: "Total number of Runnable.Run invocations completed by a worker.",
		}),
		fallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "executor_schedule_fallback_total",
			Help: "Total number of schedules that had to use the slow-path goroutine hand-off because every worker's queue was full.",
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "executor_workers",
			Help: "Number of worker goroutines in the pool.",
		}),
	}
	reg.MustRegister(m.scheduled, m.run, m.fallback, m.workers)
	return m
}

func (m *Metrics) recordScheduled() {
	if m != nil {
		m.scheduled.Inc()
	}
}

func (m *Metrics) recordRun() {
	if m != nil {
		m.run.Inc()
	}
}

func (m *Metrics) recordFallback() {
	if m != nil {
		m.fallback.Inc()
	}
}

func (m *Metrics) setWorkers(n int) {
	if m != nil {
		m.workers.Set(float64(n))
	}
}
