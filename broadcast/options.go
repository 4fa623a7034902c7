package broadcast

// options holds configuration resolved when a Bus tree is rooted.
type options struct {
	metrics *Metrics
}

// Option configures a call to New.
type Option interface {
	applyBus(*options)
}

type optionFunc func(*options)

func (f optionFunc) applyBus(o *options) { f(o) }

// WithMetrics records message traffic and topology changes across b and
// every descendant it creates via NewChild.
func WithMetrics(m *Metrics) Option {
	return optionFunc(func(o *options) {
		o.metrics = m
	})
}

func resolveOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyBus(&o)
	}
	return o
}
