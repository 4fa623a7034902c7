package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baajur/bastion/loadbalancer"
	"github.com/baajur/bastion/proc"
)

func TestPoolRunsScheduledTask(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := New(2, nil)
	p.Start(ctx)

	h := proc.Spawn(ctx, p, func(ctx context.Context) (int, error) {
		return 5, nil
	})

	out, err := h.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, out)
}

func TestPoolWorkerCountMatchesRequested(t *testing.T) {
	p := New(4, nil)
	assert.Equal(t, 4, p.WorkerCount())
	assert.Len(t, p.Sources(), 4)
}

func TestPoolZeroOrNegativeWorkersClampsToOne(t *testing.T) {
	p := New(0, nil)
	assert.Equal(t, 1, p.WorkerCount())
}

// blockingRunnable runs until release is closed, recording that it started
// via ran.
type blockingRunnable struct {
	ran     chan struct{}
	release chan struct{}
}

func (r *blockingRunnable) Run() {
	close(r.ran)
	<-r.release
}

func TestQueueDepthReflectsQueuedRunnables(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := New(1, nil, WithQueueCapacity(4))
	p.Start(ctx)

	first := &blockingRunnable{ran: make(chan struct{}), release: make(chan struct{})}
	p.Schedule(first)
	<-first.ran // the single worker is now stuck running `first`

	second := &blockingRunnable{ran: make(chan struct{}), release: make(chan struct{})}
	p.Schedule(second)

	require.Eventually(t, func() bool {
		return p.Sources()[0].QueueDepth() == 1
	}, time.Second, time.Millisecond, "second runnable should sit queued behind the blocked worker")

	close(first.release)
	<-second.ran
	close(second.release)
}

func TestScheduleFallsBackWhenEveryQueueIsFull(t *testing.T) {
	// No Start: nothing ever drains the queues, so the single worker's
	// one-slot queue fills immediately and every further Schedule must
	// take the fallback path instead of blocking the caller.
	p := New(1, nil, WithQueueCapacity(1))

	first := &blockingRunnable{ran: make(chan struct{}), release: make(chan struct{})}
	p.Schedule(first)

	done := make(chan struct{})
	second := &blockingRunnable{ran: make(chan struct{}), release: make(chan struct{})}
	go func() {
		p.Schedule(second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Schedule blocked the caller instead of falling back")
	}

	close(first.release)
	close(second.release)
}

func TestPublishesGlobalRunQueueDepth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stats := loadbalancer.NewStats(1)
	p := New(1, stats, WithQueueCapacity(4))

	first := &blockingRunnable{ran: make(chan struct{}), release: make(chan struct{})}
	p.Schedule(first)

	require.Eventually(t, func() bool {
		n, ok := stats.GlobalRunQueueLen()
		return ok && n == 1
	}, time.Second, time.Millisecond)

	close(first.release)
}
