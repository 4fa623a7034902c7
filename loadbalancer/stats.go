package loadbalancer

import "sync"

// Stats is the shared view of per-core run-queue depth that a [Sampler]
// keeps up to date in the background. Reads and writes both go through
// TryRLock/TryLock (stdlib sync/atomic-backed, std since Go 1.18) rather
// than blocking Lock/RLock, so a sampler that can't get the lock this
// instant simply skips the update instead of stalling behind a reader —
// reader preference under contention, by construction, exactly like the
// sharded reader-writer lock this is standing in for.
type Stats struct {
	mu sync.RWMutex

	globalRunQueue int
	meanLevel      int
	smpQueues      map[int]int
}

// NewStats creates an empty Stats sized for coreCount cores.
func NewStats(coreCount int) *Stats {
	return &Stats{smpQueues: make(map[int]int, coreCount)}
}

// TryUpdateQueueDepth records core's current queue depth, if the lock is
// immediately available. It reports whether the update was applied.
func (s *Stats) TryUpdateQueueDepth(core, depth int) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	s.smpQueues[core] = depth
	return true
}

// TryMeanLevel returns the current mean run-queue depth across all known
// cores, if the lock is immediately available.
func (s *Stats) TryMeanLevel() (level int, ok bool) {
	if !s.mu.TryRLock() {
		return 0, false
	}
	defer s.mu.RUnlock()
	return s.meanLevel, true
}

// trySetMeanLevel stores a freshly computed mean, if the lock is
// immediately available. It reports whether the update was applied.
func (s *Stats) trySetMeanLevel(level int) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	s.meanLevel = level
	return true
}

// trySumQueues computes the sum of every known core's queue depth and the
// number of known cores, if the lock is immediately available.
func (s *Stats) trySumQueues() (sum, cores int, ok bool) {
	if !s.mu.TryRLock() {
		return 0, 0, false
	}
	defer s.mu.RUnlock()
	for _, depth := range s.smpQueues {
		sum += depth
	}
	return sum, len(s.smpQueues), true
}

// GlobalRunQueueLen returns the depth of the shared injector queue, if
// the lock is immediately available.
func (s *Stats) GlobalRunQueueLen() (n int, ok bool) {
	if !s.mu.TryRLock() {
		return 0, false
	}
	defer s.mu.RUnlock()
	return s.globalRunQueue, true
}

// SetGlobalRunQueueLen records the depth of the shared injector queue, if
// the lock is immediately available.
func (s *Stats) SetGlobalRunQueueLen(n int) bool {
	if !s.mu.TryLock() {
		return false
	}
	defer s.mu.Unlock()
	s.globalRunQueue = n
	return true
}
