// Package loadbalancer tracks per-core run-queue depth for an executor
// and periodically folds it into a single mean-load figure.
//
// [Stats] holds the numbers; a [Sampler] is the background loop that
// keeps them current by polling a set of [QueueSource] values (typically
// one per worker) on an interval. Both reads and writes to Stats go
// through non-blocking TryLock/TryRLock, so a sampling tick that can't
// win the lock this instant simply skips rather than stalling a worker
// that's mid-update.
package loadbalancer
