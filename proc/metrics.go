package proc

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects Prometheus counters describing task lifecycle events
// across every task spawned through a given collector. A nil *Metrics is
// valid and simply records nothing, so callers that don't care about
// metrics can leave it unset.
type Metrics struct {
	spawned   prometheus.Counter
	completed prometheus.Counter
	cancelled prometheus.Counter
	panicked  prometheus.Counter
}

// NewMetrics builds a Metrics and registers it against reg. Pass
// prometheus.DefaultRegisterer to expose it on the default /metrics
// endpoint, or a fresh registry in tests to avoid collisions between
// runs.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		spawned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proc_tasks_spawned_total",
			Help: "Total number of tasks spawned.",
		}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proc_tasks_completed_total",
			Help: "Total number of tasks whose computation returned normally.",
		}),
		cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proc_tasks_cancelled_total",
			Help: "Total number of tasks dropped as a result of cancellation.",
		}),
		panicked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "proc_tasks_panicked_total",
			Help: "Total number of tasks whose computation panicked.",
		}),
	}
	reg.MustRegister(m.spawned, m.completed, m.cancelled, m.panicked)
	return m
}

func (m *Metrics) recordSpawn() {
	if m != nil {
		m.spawned.Inc()
	}
}

func (m *Metrics) recordCompleted() {
	if m != nil {
		m.completed.Inc()
	}
}

func (m *Metrics) recordCancelled() {
	if m != nil {
		m.cancelled.Inc()
	}
}

func (m *Metrics) recordPanicked() {
	if m != nil {
		m.panicked.Inc()
	}
}
