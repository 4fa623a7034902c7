package proc

// spawnOptions holds configuration resolved at spawn time.
type spawnOptions struct {
	stack   *Stack
	metrics *Metrics
}

// SpawnOption configures a single call to Spawn or SpawnAsync.
type SpawnOption interface {
	applySpawn(*spawnOptions)
}

type spawnOptionFunc func(*spawnOptions)

func (f spawnOptionFunc) applySpawn(o *spawnOptions) { f(o) }

// WithStack attaches a side-table of lifecycle hooks and a name to the
// spawned task.
func WithStack(stack *Stack) SpawnOption {
	return spawnOptionFunc(func(o *spawnOptions) {
		o.stack = stack
	})
}

// WithMetrics records lifecycle events for the spawned task on m. Pass
// nil (the default) to record nothing.
func WithMetrics(m *Metrics) SpawnOption {
	return spawnOptionFunc(func(o *spawnOptions) {
		o.metrics = m
	})
}

func resolveSpawnOptions(opts []SpawnOption) spawnOptions {
	var o spawnOptions
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applySpawn(&o)
	}
	return o
}
