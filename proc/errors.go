package proc

import (
	"errors"
	"fmt"
	"os"
)

// Namespace prefixes every sentinel error defined by this package.
const Namespace = "proc"

var (
	// ErrCancelled is returned by Handle.Await when the task was
	// cancelled, panicked, or closed before its output could be
	// consumed.
	ErrCancelled = errors.New(Namespace + ": task cancelled")
)

// abortOnPanic runs fn, and if fn panics, reports the panic and terminates
// the process immediately rather than letting the panic unwind into
// arbitrary caller state. It wraps the awaiter swap in Handle.Poll, where a
// half-completed swap would violate the "at most one live waker" invariant
// for everyone else touching the slot, and every Wake call made by the
// awaiter slot's notify and notifyUnless.
func abortOnPanic(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "%s: fatal: panic during invariant-critical section: %v\n", Namespace, r)
			os.Exit(2)
		}
	}()
	fn()
}
