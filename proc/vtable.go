package proc

import "unsafe"

// vtable holds the four indirection points that keep [Header] monomorphic
// while the concrete output/computation types stay erased behind it.
//
// schedule hands the header back to the executor's submission queue.
// getOutput returns a pointer to the slot where the output has been
// written. dropOutput disposes of a completed-but-never-consumed output
// (running any Disposer it implements) and clears the slot. destroy drops
// whatever remains (computation, output) and runs the stack's after-drop
// callback, if any, leaving the allocation to the garbage collector.
//
// Every function is addressed indirectly through *Header so the header
// itself never needs to know R. Set once at construction, never mutated.
type vtable struct {
	schedule   func(h *Header)
	getOutput  func(h *Header) unsafe.Pointer
	dropOutput func(h *Header)
	destroy    func(h *Header)
}

// Disposer is implemented by output types that hold resources needing
// explicit release when a handle is dropped without ever consuming the
// output. proc calls Dispose at most once, only when the output was
// produced but never read.
type Disposer interface {
	Dispose()
}

// Runnable is the executor-facing contract for a task: calling Run drives
// the task through exactly one scheduling step (SCHEDULED -> RUNNING ->
// {pending, completed}). An executor treats Runnable opaquely; it never
// needs to know the task's output type.
type Runnable interface {
	// Run executes one scheduling step. It must only be called by the
	// component that currently holds scheduling rights for the task (i.e.
	// in response to vtable.schedule), and must not be called
	// concurrently with another Run of the same task.
	Run()
}
