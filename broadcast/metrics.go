package broadcast

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects Prometheus counters describing supervision traffic
// across an entire bus tree. A nil *Metrics records nothing.
type Metrics struct {
	sent       prometheus.Counter
	childAdded prometheus.Counter
}

// NewMetrics builds a Metrics and registers it against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "broadcast_messages_sent_total",
			Help: "Total number of supervision messages successfully enqueued to a recipient.",
		}),
		childAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "broadcast_children_registered_total",
			Help: "Total number of child buses registered.",
		}),
	}
	reg.MustRegister(m.sent, m.childAdded)
	return m
}

func (m *Metrics) recordSent() {
	if m != nil {
		m.sent.Inc()
	}
}

func (m *Metrics) recordChildAdded() {
	if m != nil {
		m.childAdded.Inc()
	}
}
