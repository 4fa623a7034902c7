package proc

import "github.com/baajur/bastion/broadcast"

// Stack is a read-only (after construction) side-table attached to a task:
// its name, lifecycle callbacks, and an optional supervisor. It is never
// mutated once the task is spawned, so it needs no synchronization of its
// own.
type Stack struct {
	name       string
	beforeRun  func()
	afterPanic func(recovered any)
	afterDrop  func()
	supervisor *broadcast.Bus
}

// NewStack builds a Stack with the given name. Use the With* methods to
// attach lifecycle callbacks before passing the Stack to Spawn.
func NewStack(name string) *Stack {
	return &Stack{name: name}
}

// WithBeforeRun attaches a callback invoked immediately before each time
// the task's computation is polled.
func (s *Stack) WithBeforeRun(fn func()) *Stack {
	s.beforeRun = fn
	return s
}

// WithAfterPanic attaches a callback invoked if the task's computation
// panics, receiving the recovered value.
func (s *Stack) WithAfterPanic(fn func(recovered any)) *Stack {
	s.afterPanic = fn
	return s
}

// WithAfterDrop attaches a callback invoked once the task's allocation is
// about to be released (i.e. immediately before destroy runs).
func (s *Stack) WithAfterDrop(fn func()) *Stack {
	s.afterDrop = fn
	return s
}

// Name returns the task's name, or "" if none was given.
func (s *Stack) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// WithSupervisor attaches the supervision bus this task's actor belongs to,
// letting an unrecovered panic in the task's computation route a Faulted
// signal up the supervision tree, in addition to the handle itself
// observing the panic as a plain cancellation.
func (s *Stack) WithSupervisor(b *broadcast.Bus) *Stack {
	s.supervisor = b
	return s
}

// Supervisor returns the task's supervision bus, or nil if none was
// attached.
func (s *Stack) Supervisor() *broadcast.Bus {
	if s == nil {
		return nil
	}
	return s.supervisor
}
