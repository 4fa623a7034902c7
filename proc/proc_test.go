package proc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baajur/bastion/broadcast"
)

// inlineExecutor runs every scheduled Runnable synchronously, on the
// goroutine that called Schedule. It's enough to exercise the task state
// machine deterministically without a real worker pool.
type inlineExecutor struct{}

func (inlineExecutor) Schedule(r Runnable) { r.Run() }

func TestSpawnAwaitReturnsOutput(t *testing.T) {
	h := Spawn(context.Background(), inlineExecutor{}, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	out, err := h.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestSpawnPropagatesComputationError(t *testing.T) {
	wantErr := errors.New("boom")
	h := Spawn(context.Background(), inlineExecutor{}, func(ctx context.Context) (int, error) {
		return 0, wantErr
	})

	_, err := h.Await(context.Background())
	assert.Equal(t, wantErr, err)
}

func TestCancelBeforeRunDropsComputationWithoutCallingIt(t *testing.T) {
	// A queueing executor that never actually calls Run until told to,
	// so Cancel can race ahead of execution.
	var queued Runnable
	ex := &capturingExecutor{onSchedule: func(r Runnable) { queued = r }}

	called := false
	h := SpawnAsync(context.Background(), ex, func(ctx context.Context, resolve func(int, error)) {
		called = true
		resolve(1, nil)
	})

	h.Cancel()
	require.NotNil(t, queued)
	queued.Run()

	assert.False(t, called, "computation must not run once cancelled before it started")

	out, err := h.Await(context.Background())
	assert.Equal(t, 0, out)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestCancelAfterCompletionIsNoOp(t *testing.T) {
	h := Spawn(context.Background(), inlineExecutor{}, func(ctx context.Context) (string, error) {
		return "done", nil
	})

	h.Cancel() // the task already completed synchronously under Spawn/inlineExecutor

	out, err := h.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", out)
}

func TestHandleDropBeforePollTakesFastPath(t *testing.T) {
	var scheduleCount int
	ex := &capturingExecutor{onSchedule: func(r Runnable) { scheduleCount++ }}

	h := SpawnAsync(context.Background(), ex, func(ctx context.Context, resolve func(int, error)) {
		resolve(7, nil)
	})

	require.Equal(t, 1, scheduleCount)
	h.Drop()
	// the fast path only flips the HANDLE flag off; it must not trigger a
	// second schedule or destroy call on its own.
	assert.Equal(t, 1, scheduleCount)
}

func TestPanicInComputationIsRecoveredAsCancellation(t *testing.T) {
	h := Spawn(context.Background(), inlineExecutor{}, func(ctx context.Context) (int, error) {
		panic("kaboom")
	})

	out, err := h.Await(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 0, out)
}

func TestPendingComputationResolvesLater(t *testing.T) {
	var resolve func(int, error)
	ex := &capturingExecutor{}
	h := SpawnAsync(context.Background(), ex, func(ctx context.Context, r func(int, error)) {
		resolve = r // never call it synchronously: task goes pending
	})

	w := &recordingWaker{}
	out, err, ready := h.Poll(w)
	assert.False(t, ready)
	assert.Equal(t, 0, out)
	assert.NoError(t, err)

	resolve(99, nil)
	assert.True(t, w.woken, "resolving a pending task must notify the registered waker")

	out, err, ready = h.Poll(w)
	require.True(t, ready)
	require.NoError(t, err)
	assert.Equal(t, 99, out)
}

func TestDisposerRunsWhenOutputNeverConsumed(t *testing.T) {
	d := &disposable{}
	h := Spawn(context.Background(), inlineExecutor{}, func(ctx context.Context) (*disposable, error) {
		return d, nil
	})

	h.Drop() // never polled to completion

	assert.True(t, d.disposed)
}

func TestPanicInComputationFaultsTheAttachedSupervisor(t *testing.T) {
	root := broadcast.New()
	actor := root.NewChild()
	stack := NewStack("worker").WithSupervisor(actor)

	h := Spawn(context.Background(), inlineExecutor{}, func(ctx context.Context) (int, error) {
		panic("kaboom")
	}, WithStack(stack))

	_, err := h.Await(context.Background())
	require.ErrorIs(t, err, ErrCancelled)

	msg, ok := root.Recv()
	require.True(t, ok, "the actor's Faulted signal should have reached its parent")
	faulted, ok := msg.(broadcast.FaultedMessage)
	require.True(t, ok)
	assert.Equal(t, actor.ID(), faulted.ID)
}

type capturingExecutor struct {
	onSchedule func(Runnable)
}

func (c *capturingExecutor) Schedule(r Runnable) {
	if c.onSchedule != nil {
		c.onSchedule(r)
		return
	}
	r.Run()
}

type recordingWaker struct {
	woken bool
}

func (w *recordingWaker) Wake() { w.woken = true }

type disposable struct {
	disposed bool
}

func (d *disposable) Dispose() { d.disposed = true }
