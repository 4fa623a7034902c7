package executor

import (
	"context"
	"sync/atomic"

	"github.com/baajur/bastion/internal/obslog"
	"github.com/baajur/bastion/loadbalancer"
	"github.com/baajur/bastion/proc"
)

// workerQueue is one worker's run-queue. It implements
// [loadbalancer.QueueSource] directly via its current length, giving the
// Sampler a real per-worker depth to read without any extra bookkeeping.
type workerQueue chan proc.Runnable

func (q workerQueue) QueueDepth() int { return len(q) }

// Pool is a minimal worker-pool [proc.Executor]: a fixed number of worker
// goroutines, each with its own bounded run-queue, fed round-robin by
// Schedule. It exists to exercise the proc state machine end-to-end and to
// give loadbalancer.Sampler real per-core queue depths; it is not a
// replacement for a work-stealing scheduler.
type Pool struct {
	queues  []workerQueue
	next    atomic.Uint64
	stats   *loadbalancer.Stats
	metrics *Metrics
}

// New creates a Pool with n worker goroutines, ready for Start. stats may
// be nil if nothing needs the pool's aggregate depth published.
func New(n int, stats *loadbalancer.Stats, opts ...Option) *Pool {
	if n < 1 {
		n = 1
	}
	o := resolvePoolOptions(opts)

	p := &Pool{
		queues:  make([]workerQueue, n),
		stats:   stats,
		metrics: o.metrics,
	}
	for i := range p.queues {
		p.queues[i] = make(workerQueue, o.queueCapacity)
	}
	p.metrics.setWorkers(n)
	return p
}

// Sources returns one [loadbalancer.QueueSource] per worker, indexed the
// same way the Pool itself indexes workers, suitable for passing directly
// to [loadbalancer.NewSampler].
func (p *Pool) Sources() []loadbalancer.QueueSource {
	srcs := make([]loadbalancer.QueueSource, len(p.queues))
	for i, q := range p.queues {
		srcs[i] = q
	}
	return srcs
}

// Start launches one goroutine per worker. Each worker pulls Runnables off
// its own queue and calls Run until ctx is done. Start does not block.
func (p *Pool) Start(ctx context.Context) {
	for i := range p.queues {
		go p.runWorker(ctx, p.queues[i])
	}
}

func (p *Pool) runWorker(ctx context.Context, q workerQueue) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-q:
			r.Run()
			p.metrics.recordRun()
		}
	}
}

// Schedule implements [proc.Executor]. It assigns r to a worker's
// run-queue round-robin. If that worker's queue is momentarily full,
// Schedule retries the remaining workers once each before falling back to
// a detached goroutine that blocks on the original queue — so Schedule
// itself never blocks the caller indefinitely, matching the dispatcher
// hand-off pattern this pool is modeled on.
func (p *Pool) Schedule(r proc.Runnable) {
	p.metrics.recordScheduled()
	n := len(p.queues)
	start := int(p.next.Add(1)) % n

	for i := 0; i < n; i++ {
		q := p.queues[(start+i)%n]
		select {
		case q <- r:
			p.publishDepth()
			return
		default:
		}
	}

	p.metrics.recordFallback()
	obslog.Get().Warning().Log("every worker queue full, falling back to blocking hand-off")
	target := p.queues[start]
	go func() {
		target <- r
		p.publishDepth()
	}()
}

// publishDepth best-effort-publishes the pool's total queued Runnables as
// the executor-owned global run-queue counter (see [loadbalancer.Stats]).
// It never blocks: a busy Stats lock just means this sample is skipped.
func (p *Pool) publishDepth() {
	if p.stats == nil {
		return
	}
	var total int
	for _, q := range p.queues {
		total += len(q)
	}
	p.stats.SetGlobalRunQueueLen(total)
}

// WorkerCount reports the number of workers in the pool.
func (p *Pool) WorkerCount() int {
	return len(p.queues)
}
