package proc

// taskState is the packed atomic state word for one task: five lifecycle
// flags in the low bits, and a reference count occupying everything above
// the flag region. The layout is load-bearing — the handle-drop fast path
// (see Header.dropHandle) compares the whole word, flags and count
// together, against the initial pattern in a single CAS, and cancel and
// startRun move the count by exactly [stateReference].
type taskState = uint64

const (
	// stateScheduled: the task has been submitted to the executor and is
	// not currently running.
	stateScheduled taskState = 1 << 0

	// stateRunning: a worker currently has exclusive execution rights.
	stateRunning taskState = 1 << 1

	// stateCompleted: the computation finished and produced an output
	// (possibly not yet consumed).
	stateCompleted taskState = 1 << 2

	// stateClosed: cancellation requested, or the output has already been
	// taken. No further polls; the output slot is logically empty.
	stateClosed taskState = 1 << 3

	// stateHandle: a live observer Handle exists.
	stateHandle taskState = 1 << 4

	// bits 5 and 6 are reserved, keeping a full 7-bit flag region between
	// the flags above and the reference count below. This mirrors the
	// source's layout guidance ("reserve at least 7 flag bits"). Whether a
	// waker is registered is tracked by the awaiter slot itself (see
	// awaiter.go), not by a bit here, so cancel and resolve can notify
	// unconditionally without keeping a second flag in lockstep with it.

	// stateReference is the least-significant bit of the reference-count
	// field. Adding stateReference raises the refcount by one; the count
	// occupies every bit from here upward. There is no public API that
	// clones a reference arbitrarily many times (unlike the source's
	// Arc-backed handles): Header.init sets the count to one, and
	// Header.cancel adds at most one more, exactly once per task, when it
	// has to re-submit a pending task for a cancelled drop. The count
	// therefore never exceeds 2 and a saturation guard has nothing to
	// guard against in this port.
	stateReference taskState = 1 << 7
)

// flagMask covers every bit below stateReference, i.e. the full 7-bit flag
// region (two of which, bits 5 and 6, are currently unused).
const flagMask taskState = stateReference - 1

// refCount extracts the reference count from a packed state word.
func refCount(s taskState) uint64 {
	return uint64(s) / uint64(stateReference)
}

// refBits returns just the reference-count bits of s (s with the flag
// region masked out).
func refBits(s taskState) taskState {
	return s &^ flagMask
}
