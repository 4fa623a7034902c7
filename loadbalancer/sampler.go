package loadbalancer

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// QueueSource reports the current depth of one core's run queue. An
// executor implements this once per worker and registers it with a
// Sampler so the background sampling loop has something to read.
type QueueSource interface {
	QueueDepth() int
}

// Sampler periodically recomputes the mean level held in [Stats] (read via
// [Stats.TryMeanLevel]) from a fixed set of
// per-core queue sources, running in its own goroutine for the lifetime
// of the process (or until its context is cancelled).
type Sampler struct {
	stats    *Stats
	sources  []QueueSource
	interval time.Duration
}

// options holds sampler construction knobs.
type options struct {
	interval time.Duration
}

// Option configures a Sampler.
type Option interface {
	applySampler(*options)
}

type optionFunc func(*options)

func (f optionFunc) applySampler(o *options) { f(o) }

// WithSampleInterval sets the delay between samples. The default is a
// small but nonzero interval: the original sampling loop this is modeled
// on spins with no delay at all, which is reasonable for a dedicated OS
// thread pinned to its own core but simply burns a Go scheduler P for no
// benefit, so a default interval is used here instead, overridable down
// to zero (a true busy-spin) if that's ever actually wanted.
func WithSampleInterval(d time.Duration) Option {
	return optionFunc(func(o *options) {
		o.interval = d
	})
}

const defaultSampleInterval = 200 * time.Microsecond

// NewSampler creates a Sampler over stats, reading depth from sources
// (indexed by core) on every tick.
func NewSampler(stats *Stats, sources []QueueSource, opts ...Option) *Sampler {
	o := options{interval: defaultSampleInterval}
	for _, opt := range opts {
		if opt != nil {
			opt.applySampler(&o)
		}
	}
	return &Sampler{stats: stats, sources: sources, interval: o.interval}
}

// Run drives the sampling loop until ctx is done. It's meant to be called
// from its own goroutine, mirroring the original implementation's
// dedicated background thread.
func (s *Sampler) Run(ctx context.Context) {
	if s.interval <= 0 {
		for ctx.Err() == nil {
			s.sampleOnce()
		}
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sampleOnce()
		}
	}
}

func (s *Sampler) sampleOnce() {
	for core, src := range s.sources {
		s.stats.TryUpdateQueueDepth(core, src.QueueDepth())
	}

	sum, cores, ok := s.stats.trySumQueues()
	if !ok || cores == 0 {
		return
	}
	mean := sum / cores
	s.stats.trySetMeanLevel(mean)
}

var (
	globalOnce  sync.Once
	globalStats *Stats
)

// Global returns a process-wide Stats instance, lazily creating it (and
// starting its sampler in the background) on first call. This mirrors
// the lazily-initialized global the original sampler lived behind; most
// callers are better served constructing their own Sampler explicitly
// via NewSampler, but Global exists for code that wants the same
// ambient-singleton convenience.
func Global(ctx context.Context, sources []QueueSource) *Stats {
	globalOnce.Do(func() {
		globalStats = NewStats(runtime.NumCPU())
		sampler := NewSampler(globalStats, sources)
		go sampler.Run(ctx)
	})
	return globalStats
}
