package proc

import "sync/atomic"

// Waker is the wake-up target registered by a blocked Handle.Poll. It is
// the Go analogue of a Future waker: something an asleep observer can be
// notified through.
type Waker interface {
	// Wake notifies the observer that it should poll again. Wake must be
	// safe to call from any goroutine, any number of times, including
	// after the observer has already been woken or has stopped caring.
	Wake()
}

// WakerFunc adapts a plain function to a Waker.
type WakerFunc func()

// Wake implements Waker.
func (f WakerFunc) Wake() { f() }

// equalWaker reports whether two wakers refer to the same underlying
// notification target, used by notifyUnless to avoid a waker notifying
// itself during a poll-time swap. Arbitrary Waker implementations (in
// particular WakerFunc) aren't comparable with == without risking a runtime
// panic, so Handle.Poll wraps every waker it hands to the awaiter slot in a
// *comparableWaker first; two such wrappers compare equal here exactly when
// they're the same pointer, i.e. the same Poll call's waker.
func equalWaker(a, b Waker) bool {
	if a == nil || b == nil {
		return a == b
	}
	af, aok := a.(*comparableWaker)
	bf, bok := b.(*comparableWaker)
	if aok && bok {
		return af == bf
	}
	return false
}

// comparableWaker wraps a Waker so that two registrations made from the
// same logical call site can be compared by identity.
type comparableWaker struct {
	Waker
}

// awaiterSlot is a single-slot notification port: at most one observer may
// be registered at a time. Replacing the slot atomically transfers
// ownership of whatever was previously stored to the caller, which is
// responsible for dropping it (here: simply letting it be garbage
// collected, since Go wakers hold no non-GC resources).
type awaiterSlot struct {
	// lock guards mutation of waker; true means locked. Kept
	// separate from the task's own state word, as permitted by the
	// source's design notes.
	lock  atomic.Bool
	waker atomic.Pointer[Waker]
}

// swap installs w as the registered waker, returning whatever was
// previously registered (nil if none). Spins briefly against concurrent
// notify/swap callers; the critical section is just a pointer store, so
// contention is expected to be short-lived.
func (s *awaiterSlot) swap(w Waker) Waker {
	for !s.lock.CompareAndSwap(false, true) {
		// tight retry: the holder only ever does O(1) work under lock
	}
	prev := s.waker.Swap(&w)
	s.lock.Store(false)
	if prev == nil {
		return nil
	}
	return *prev
}

// take removes and returns the registered waker, leaving the slot empty.
func (s *awaiterSlot) take() Waker {
	for !s.lock.CompareAndSwap(false, true) {
	}
	prev := s.waker.Swap(nil)
	s.lock.Store(false)
	if prev == nil {
		return nil
	}
	return *prev
}

// notify takes the stored waker, if any, and wakes it.
func (s *awaiterSlot) notify() {
	if w := s.take(); w != nil {
		abortOnPanic(w.Wake)
	}
}

// notifyUnless takes the stored waker and wakes it, unless it is the same
// waker as current (in which case waking would be a self-notification: the
// caller is already about to observe the new state directly).
func (s *awaiterSlot) notifyUnless(current Waker) {
	w := s.take()
	if w == nil {
		return
	}
	if equalWaker(w, current) {
		return
	}
	abortOnPanic(w.Wake)
}
