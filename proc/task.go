package proc

import (
	"context"
	"unsafe"

	"github.com/baajur/bastion/internal/obslog"
)

// slotTag records what, if anything, is currently staged in a task's
// output slot.
type slotTag uint8

const (
	slotEmpty slotTag = iota
	slotOutput
)

// slot holds a task's output once resolved. It is only ever touched by
// the single goroutine driving the task's computation (for writes) and by
// a handle holding CLOSED-claiming rights (for the one read that consumes
// it), so it needs no lock of its own — the state word's CAS operations
// are what serialize access to it.
type slot[R any] struct {
	tag    slotTag
	output R
	err    error
}

// Computation is the unit of work a spawned task runs. resolve must be
// called exactly once, synchronously or from any other goroutine, to
// report the task's outcome. If Computation returns without having
// called resolve, the task becomes pending: it is parked until something
// else (most commonly a goroutine kicked off by Computation itself)
// calls resolve later.
type Computation[R any] func(ctx context.Context, resolve func(R, error))

// Executor is anything capable of accepting a [Runnable] for later
// execution. Spawn uses it both for the task's initial submission and for
// any re-submission driven by the task's own state machine (a cancelled
// pending task, or a wake-up that raced with a poll).
type Executor interface {
	Schedule(Runnable)
}

// Task is a spawned unit of work bound to output type R. It embeds
// [Header] as its first field, so a *Header recovered from a Task's
// address can always be converted back with unsafe.Pointer — this is
// what lets the vtable stay generic-free while Task stays fully typed.
type Task[R any] struct {
	Header
	ctx     context.Context
	comp    Computation[R]
	ex      Executor
	metrics *Metrics
	slot    slot[R]
}

// Spawn creates a task around a plain, synchronous computation and
// submits it to ex immediately. The returned Handle observes the task's
// single output.
func Spawn[R any](ctx context.Context, ex Executor, fn func(ctx context.Context) (R, error), opts ...SpawnOption) *Handle[R] {
	return SpawnAsync(ctx, ex, func(ctx context.Context, resolve func(R, error)) {
		resolve(fn(ctx))
	}, opts...)
}

// SpawnAsync creates a task around a Computation and submits it to ex
// immediately. Unlike Spawn, the computation may return before calling
// resolve, in which case the task is pending until something else resolves
// it — the cooperative "future yields pending" path.
func SpawnAsync[R any](ctx context.Context, ex Executor, comp Computation[R], opts ...SpawnOption) *Handle[R] {
	o := resolveSpawnOptions(opts)
	t := &Task[R]{ctx: ctx, comp: comp, ex: ex, metrics: o.metrics}
	t.Header.init(taskVtable[R](), o.stack)
	t.metrics.recordSpawn()
	ex.Schedule(t)
	return &Handle[R]{task: t}
}

// taskVtable builds a fresh vtable, one per call, bridging the generic
// Task[R] to the monomorphic Header.
func taskVtable[R any]() *vtable {
	return &vtable{
		schedule: func(h *Header) {
			t := taskFromHeader[R](h)
			t.ex.Schedule(t)
		},
		getOutput: func(h *Header) unsafe.Pointer {
			t := taskFromHeader[R](h)
			return unsafe.Pointer(&t.slot.output)
		},
		dropOutput: func(h *Header) {
			t := taskFromHeader[R](h)
			if t.slot.tag == slotOutput {
				if d, ok := any(t.slot.output).(Disposer); ok {
					d.Dispose()
				}
			}
			var zero R
			t.slot.output = zero
			t.slot.err = nil
			t.slot.tag = slotEmpty
		},
		destroy: func(h *Header) {
			t := taskFromHeader[R](h)
			t.comp = nil
			var zero R
			t.slot.output = zero
			t.slot.err = nil
			t.slot.tag = slotEmpty
			if stack := t.Header.stack; stack != nil && stack.afterDrop != nil {
				stack.afterDrop()
			}
		},
	}
}

// taskFromHeader recovers the owning *Task[R] from a *Header, relying on
// Header being Task[R]'s first field.
func taskFromHeader[R any](h *Header) *Task[R] {
	return (*Task[R])(unsafe.Pointer(h))
}

// resolve publishes the task's outcome. Called more than once, or after
// the task has been cancelled, it is a no-op: only the first call that
// observes neither CLOSED nor COMPLETED wins.
func (t *Task[R]) resolve(output R, err error) {
	for {
		s := t.Header.state.Load()
		if s&(stateClosed|stateCompleted) != 0 {
			return
		}
		t.slot.output = output
		t.slot.err = err
		t.slot.tag = slotOutput
		ns := s | stateCompleted
		if t.Header.state.CompareAndSwap(s, ns) {
			t.Header.awaiter.notify()
			t.metrics.recordCompleted()
			return
		}
	}
}

// Run implements [Runnable]. It claims execution rights, runs the
// computation (recovering a panic as cancellation, per Handle.Poll) unless
// the task was already cancelled, and clears running rights again,
// re-submitting if a wake-up raced with the run.
func (t *Task[R]) Run() {
	if !t.Header.startRun() {
		return
	}

	if stack := t.Header.stack; stack != nil && stack.beforeRun != nil {
		stack.beforeRun()
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				obslog.Get().Err().Str("task", t.Header.stack.Name()).Log("task computation panicked")
				stack := t.Header.stack
				if stack != nil && stack.afterPanic != nil {
					stack.afterPanic(r)
				}
				if sup := stack.Supervisor(); sup != nil {
					sup.Faulted()
				}
				// A panic is cancellation from the handle's perspective: no
				// output is published, Poll/Await see ErrCancelled exactly
				// as they would for an externally cancelled task.
				t.metrics.recordPanicked()
				t.Header.cancel()
			}
		}()
		t.comp(t.ctx, t.resolve)
	}()

	t.Header.finishRun()
}
