// Package broadcast implements a hierarchical supervision message bus.
//
// A [Bus] is one node in a tree of actors. Each node owns an unbounded
// mailbox addressed by a [github.com/google/uuid.UUID], knows its
// parent's mailbox (if any), and keeps a registry of its children's
// mailboxes. [Message] is a closed set of supervision signals
// (PoisonPillMessage, DeadMessage, FaultedMessage) plus an open-ended
// UserMessage carrying an application payload.
//
// # Delivery semantics
//
// Sends never fail visibly: delivering to a parent or child that no
// longer exists, or whose mailbox has already been closed, is a silent
// no-op. This mirrors the behaviour of the system this package's design
// is drawn from, which deliberately never surfaced send errors to
// callers.
//
// # Concurrency
//
// A Bus's mailbox supports any number of concurrent senders and exactly
// one concurrent receiver (via Recv/TryRecv). The children registry is
// guarded by a mutex and safe to mutate and read concurrently with sends.
package broadcast
