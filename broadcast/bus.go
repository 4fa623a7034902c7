package broadcast

import (
	"sync"

	"github.com/google/uuid"

	"github.com/baajur/bastion/internal/obslog"
)

// Bus is one node in a supervision tree: it owns a mailbox addressed by
// its own ID, optionally knows its parent's mailbox, and keeps a registry
// of its children's mailboxes. Sends to a parent or child that no longer
// exists, or whose mailbox has been closed, are silently discarded —
// mirroring the upstream implementation, which never surfaced delivery
// failures to callers either.
type Bus struct {
	id     uuid.UUID
	box    *mailbox
	parent *Bus

	mu       sync.Mutex
	children map[uuid.UUID]*Bus

	metrics *Metrics
}

// New creates a root Bus with a freshly generated ID and no parent.
func New(opts ...Option) *Bus {
	o := resolveOptions(opts)
	return &Bus{
		id:       uuid.New(),
		box:      newMailbox(),
		children: make(map[uuid.UUID]*Bus),
		metrics:  o.metrics,
	}
}

// ID returns the bus's identity.
func (b *Bus) ID() uuid.UUID { return b.id }

// NewChild creates a new Bus whose parent is b, registers it in b's
// children, and returns it. The child inherits b's metrics collector.
func (b *Bus) NewChild() *Bus {
	child := &Bus{
		id:       uuid.New(),
		box:      newMailbox(),
		parent:   b,
		children: make(map[uuid.UUID]*Bus),
		metrics:  b.metrics,
	}

	b.mu.Lock()
	b.children[child.id] = child
	b.mu.Unlock()

	b.metrics.recordChildAdded()
	return child
}

// RemoveChild drops id from b's registry without sending it anything. It
// reports whether a child with that ID was present.
func (b *Bus) RemoveChild(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.children[id]; !ok {
		return false
	}
	delete(b.children, id)
	return true
}

// ClearChildren drops every registered child without notifying them.
func (b *Bus) ClearChildren() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.children)
}

// SendParent delivers msg to b's parent. It is a no-op for a root bus.
func (b *Bus) SendParent(msg Message) {
	if b.parent == nil {
		return
	}
	b.parent.box.push(msg)
	b.metrics.recordSent()
}

// SendChild delivers msg to the single child identified by id, if still
// registered.
func (b *Bus) SendChild(id uuid.UUID, msg Message) {
	b.mu.Lock()
	child, ok := b.children[id]
	b.mu.Unlock()
	if !ok {
		return
	}
	child.box.push(msg)
	b.metrics.recordSent()
}

// SendChildren delivers an independent clone of msg to every registered
// child.
func (b *Bus) SendChildren(msg Message) {
	b.mu.Lock()
	children := make([]*Bus, 0, len(b.children))
	for _, c := range b.children {
		children = append(children, c)
	}
	b.mu.Unlock()

	for _, c := range children {
		c.box.push(msg.Clone())
		b.metrics.recordSent()
	}
}

// PoisonPillChild sends a poison pill to the child identified by id and
// immediately forgets about it.
func (b *Bus) PoisonPillChild(id uuid.UUID) {
	b.SendChild(id, PoisonPill)
	b.RemoveChild(id)
}

// PoisonPillChildren sends a poison pill to every registered child and
// clears the registry.
func (b *Bus) PoisonPillChildren() {
	b.SendChildren(PoisonPill)
	b.ClearChildren()
}

// Dead tells every child to stop and reports b's own termination to its
// parent. Call this once, when the actor represented by b finishes
// normally.
func (b *Bus) Dead() {
	b.PoisonPillChildren()
	b.SendParent(Dead(b.id))
}

// Faulted tells every child to stop and reports b's own abnormal
// termination to its parent.
func (b *Bus) Faulted() {
	obslog.Get().Warning().Str("actor", b.id.String()).Log("actor faulted")
	b.PoisonPillChildren()
	b.SendParent(Faulted(b.id))
}

// Recv blocks until a message arrives for b, or b is closed and fully
// drained, in which case ok is false.
func (b *Bus) Recv() (msg Message, ok bool) {
	return b.box.pop()
}

// TryRecv is the non-blocking form of Recv.
func (b *Bus) TryRecv() (msg Message, ok bool) {
	return b.box.tryPop()
}

// Close closes b's own mailbox, waking any blocked Recv with ok == false
// once it is drained. It does not touch the children registry or notify
// anyone; use Dead or Faulted first if that's required.
func (b *Bus) Close() {
	b.box.close()
}

// Len reports the number of messages currently queued for b.
func (b *Bus) Len() int {
	return b.box.len()
}
