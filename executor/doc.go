// Package executor is a minimal worker-pool reference implementation of
// the proc.Executor contract: it exists to drive tasks through the
// SCHEDULED -> RUNNING -> {pending, completed} state machine that package
// proc owns, and to give package loadbalancer's Sampler a real set of
// per-worker queue depths to read.
//
// It is not the work-stealing executor the design documents describe —
// that scheduler's run-queues, thread pinning, and stealing policy remain
// an external collaborator. Pool is deliberately simple: N worker
// goroutines, each with its own bounded run-queue, fed round-robin by
// Schedule.
package executor
