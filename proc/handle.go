package proc

import "context"

// Handle observes a single task's eventual output. It is the only way to
// retrieve a task's result, and the only thing that can cancel a task
// from outside the task's own computation.
//
// A Handle must not be polled from more than one goroutine concurrently;
// concurrent Poll calls race on the same waker slot exactly like a single
// Future polled from two places at once.
type Handle[R any] struct {
	task *Task[R]
}

// Stack returns the task's side-table, or nil if it was spawned without
// one.
func (h *Handle[R]) Stack() *Stack {
	return h.task.Header.Stack()
}

// Poll checks the task's output without blocking. ready reports whether
// the task has reached a terminal state. When ready is true and err is
// [ErrCancelled], the task produced no output — it was cancelled, its
// computation panicked (treated identically to cancellation; the panic
// value itself never reaches the caller), or the output was already
// consumed by an earlier Poll. When ready is true and err is anything else
// (including nil), the task resolved normally and output/err are exactly
// what resolve was called with.
//
// When Poll returns ready == false, w is registered and will be woken
// (see [Waker]) no more than once before the caller polls again.
func (h *Handle[R]) Poll(w Waker) (output R, err error, ready bool) {
	t := h.task
	hdr := &t.Header
	// Wrapping in a fresh *comparableWaker per call gives notifyUnless a
	// stable identity for "the waker this specific Poll call just
	// installed", without requiring every Waker implementation to be
	// comparable with == (WakerFunc, a func type, isn't).
	cw := &comparableWaker{w}

	s := hdr.state.Load()
	for {
		if s&stateClosed != 0 {
			hdr.awaiter.notifyUnless(cw)
			var zero R
			return zero, ErrCancelled, true
		}

		if s&stateCompleted == 0 {
			abortOnPanic(func() { hdr.awaiter.swap(cw) })
			s = hdr.state.Load()
			if s&stateClosed != 0 {
				hdr.awaiter.notifyUnless(cw)
				var zero R
				return zero, ErrCancelled, true
			}
			if s&stateCompleted == 0 {
				var zero R
				return zero, nil, false
			}
		}

		ns := s | stateClosed
		if hdr.state.CompareAndSwap(s, ns) {
			hdr.awaiter.notifyUnless(cw)
			out := t.slot.output
			oerr := t.slot.err
			var zero R
			t.slot.output = zero
			t.slot.err = nil
			t.slot.tag = slotEmpty
			return out, oerr, true
		}
		s = hdr.state.Load()
	}
}

// Cancel requests that the task stop. If it hasn't started running yet,
// its computation is dropped without ever being invoked. If it's already
// running, cancellation is observed the next time the computation resolves
// or yields; the computation itself is not interrupted mid-flight (pass a
// cancellable context.Context to observe cancellation from inside the
// computation). If the task already completed, Cancel is a no-op and the
// output remains available to Poll/Await.
func (h *Handle[R]) Cancel() {
	h.task.Header.cancel()
	h.task.metrics.recordCancelled()
}

// Await blocks until the task resolves or ctx is done, whichever comes
// first. If ctx is done first, the task is left running; Await does not
// cancel it.
func (h *Handle[R]) Await(ctx context.Context) (R, error) {
	woken := make(chan struct{}, 1)
	w := WakerFunc(func() {
		select {
		case woken <- struct{}{}:
		default:
		}
	})

	for {
		out, err, ready := h.Poll(w)
		if ready {
			return out, err
		}
		select {
		case <-woken:
		case <-ctx.Done():
			var zero R
			return zero, ctx.Err()
		}
	}
}

// Drop releases the handle. After Drop, the handle must not be used
// again. Most callers don't need this — garbage collection would
// eventually reclaim an abandoned Handle anyway — but a still-running
// task keeps its computation alive until either it resolves or something
// calls Drop or Cancel, so long-lived tasks should call one of the two
// explicitly rather than relying on the collector's timing.
func (h *Handle[R]) Drop() {
	h.task.Header.dropHandle()
}
