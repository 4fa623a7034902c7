// Package proc implements lightproc: a reference-counted, atomically
// state-machined handle to an in-flight computation.
//
// A [Task] is created with [Spawn], which returns a [Handle] bound to the
// task's output type. The task itself is reduced to a [Runnable] for the
// benefit of an executor, which drives it through its lifecycle by calling
// Run each time the task is scheduled.
//
// # State machine
//
// Every task carries a single atomic state word (see state.go) packing five
// lifecycle flags and a reference count into one uint64. All transitions are
// compare-and-swap loops; the task's backing allocation is only released
// once the reference count reaches zero.
//
// # Handles
//
// A [Handle] is a single-output future: polling it resolves to the task's
// output, to "no output" (cancelled, panicked, or already consumed), or to
// pending. Dropping a handle before the task completes cancels the task,
// except on the single-CAS fast path taken while the task is still in its
// initial scheduled state, which only clears the handle flag and leaves the
// task to run.
package proc
