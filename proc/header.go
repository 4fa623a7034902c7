package proc

import "sync/atomic"

// Header is the non-generic portion of a task: the packed atomic state
// word, the vtable used to act on the type-erased body, the awaiter slot,
// and the task's side-table. It is always the first field of a [Task], so
// a *Header and the owning *Task[R] share an address — vtable functions
// receive *Header and recover the concrete, typed task through that
// guarantee (see vtable.go).
type Header struct {
	// _ pads the header onto its own cache line so the hot state word
	// isn't false-shared with whatever precedes a Task in memory.
	_ [56]byte

	state   atomic.Uint64
	vt      *vtable
	awaiter awaiterSlot
	stack   *Stack
}

// init sets the header's initial state: SCHEDULED | HANDLE | REFERENCE —
// one reference, one live handle, already sitting in the executor's queue.
// This exact bit pattern is the target of the handle-drop fast path.
func (h *Header) init(vt *vtable, stack *Stack) {
	h.vt = vt
	h.stack = stack
	h.state.Store(stateScheduled | stateHandle | stateReference)
}

// Stack returns the task's side-table.
func (h *Header) Stack() *Stack {
	return h.stack
}

// load returns the current packed state word.
func (h *Header) load() taskState {
	return h.state.Load()
}

// releaseIfDone checks whether, given a just-published state s, the task
// has no live handle and no outstanding references, and if so runs
// destroy exactly once. The run-side transitions (startRun, finishRun)
// funnel through this choke point; dropHandle makes its own destroy
// decision.
func (h *Header) releaseIfDone(s taskState) {
	if refBits(s) == 0 && s&stateHandle == 0 {
		h.vt.destroy(h)
	}
}

// startRun is called by the executor's Runnable.Run to claim exclusive
// execution rights. It returns true if the caller should go on to invoke
// the task's computation. If the task was closed (cancelled) before ever
// running, it instead consumes this scheduled slot without running
// anything, exactly matching "cancelling a not-yet-started task drops its
// computation without polling".
func (h *Header) startRun() bool {
	for {
		s := h.state.Load()
		if s&stateClosed != 0 {
			ns := (s &^ stateScheduled) - stateReference
			if h.state.CompareAndSwap(s, ns) {
				h.releaseIfDone(ns)
				return false
			}
			continue
		}
		ns := (s &^ stateScheduled) | stateRunning
		if h.state.CompareAndSwap(s, ns) {
			return true
		}
	}
}

// finishRun clears RUNNING after the computation has returned, whether or
// not it resolved the task synchronously.
// If a wake-up raced with execution and re-set SCHEDULED while RUNNING was
// held, the task is re-submitted so the executor drives it again.
func (h *Header) finishRun() {
	for {
		s := h.state.Load()
		ns := s &^ stateRunning
		if h.state.CompareAndSwap(s, ns) {
			if ns&stateScheduled != 0 {
				h.vt.schedule(h)
			}
			h.releaseIfDone(ns)
			return
		}
	}
}

// cancel requests cancellation. If the task has already completed or
// closed, this is a no-op — per invariant 4, a completed task cannot be
// un-completed by cancel. Otherwise: if the task isn't currently scheduled
// or running (it is "pending", suspended between polls), this schedules
// it one more time (taking a fresh reference for that scheduling slot) so
// the executor drops its computation instead of resuming it; otherwise it
// just marks CLOSED in place, to be observed at the task's next
// transition point. Either way, a registered awaiter is notified.
func (h *Header) cancel() {
	s := h.state.Load()
	for {
		if s&(stateCompleted|stateClosed) != 0 {
			return
		}

		var ns taskState
		if s&(stateScheduled|stateRunning) == 0 {
			ns = (s | stateScheduled | stateClosed) + stateReference
		} else {
			ns = s | stateClosed
		}

		if h.state.CompareAndSwap(s, ns) {
			if s&(stateScheduled|stateRunning) == 0 {
				h.vt.schedule(h)
			}
			// notify unconditionally: the awaiter slot's own lock makes
			// take() a cheap, safe no-op when nothing is registered, which
			// avoids having to keep a separate flag bit in lockstep with it.
			h.awaiter.notify()
			return
		}
		s = h.state.Load()
	}
}

// dropHandle implements the handle-drop algorithm: a single-CAS fast path
// for a task still in its initial scheduled state (it only clears HANDLE),
// and a slow path that cancels a task that has neither completed nor
// closed, disposes of an unread output, clears the HANDLE flag, and — if
// no reference is left — hands the task to the executor for teardown (if
// not yet closed) or destroys it outright (if already closed).
func (h *Header) dropHandle() {
	if h.state.CompareAndSwap(stateScheduled|stateHandle|stateReference, stateScheduled|stateReference) {
		return
	}

	s := h.state.Load()
	if s&(stateCompleted|stateClosed) == 0 {
		h.cancel()
		s = h.state.Load()
	}
	for {
		if s&stateCompleted != 0 && s&stateClosed == 0 {
			ns := s | stateClosed
			if h.state.CompareAndSwap(s, ns) {
				h.vt.dropOutput(h)
				s = ns
				continue
			}
			s = h.state.Load()
			continue
		}

		var ns taskState
		if refBits(s) == 0 && s&stateClosed == 0 {
			ns = stateScheduled | stateClosed | stateReference
		} else {
			ns = s &^ stateHandle
		}

		if h.state.CompareAndSwap(s, ns) {
			if refBits(s) == 0 {
				if s&stateClosed == 0 {
					h.vt.schedule(h)
				} else {
					h.vt.destroy(h)
				}
			}
			return
		}
		s = h.state.Load()
	}
}
