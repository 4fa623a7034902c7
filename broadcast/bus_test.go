package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParentChildDelivery(t *testing.T) {
	root := New()
	child := root.NewChild()

	child.SendParent(Msg("hello"))
	msg, ok := root.Recv()
	require.True(t, ok)
	um, ok := msg.(UserMessage)
	require.True(t, ok)
	assert.Equal(t, "hello", um.Payload)

	root.SendChild(child.ID(), Msg("world"))
	msg, ok = child.Recv()
	require.True(t, ok)
	um, ok = msg.(UserMessage)
	require.True(t, ok)
	assert.Equal(t, "world", um.Payload)
}

func TestSendToRemovedChildIsDiscardedSilently(t *testing.T) {
	root := New()
	child := root.NewChild()
	root.RemoveChild(child.ID())

	root.SendChild(child.ID(), Msg("lost"))
	assert.Equal(t, 0, child.Len())
}

func TestSendToClosedMailboxIsDiscardedSilently(t *testing.T) {
	root := New()
	child := root.NewChild()
	child.Close()

	assert.NotPanics(t, func() {
		root.SendChild(child.ID(), Msg("late"))
	})
	_, ok := child.Recv()
	assert.False(t, ok)
}

func TestPoisonPillChildRemovesRegistration(t *testing.T) {
	root := New()
	child := root.NewChild()

	root.PoisonPillChild(child.ID())

	msg, ok := child.Recv()
	require.True(t, ok)
	assert.Equal(t, PoisonPill, msg)
	assert.False(t, root.RemoveChild(child.ID()))
}

func TestDeadNotifiesParentAndPoisonsChildren(t *testing.T) {
	root := New()
	mid := root.NewChild()
	leaf := mid.NewChild()

	mid.Dead()

	msg, ok := leaf.Recv()
	require.True(t, ok)
	assert.Equal(t, PoisonPill, msg)

	msg, ok = root.Recv()
	require.True(t, ok)
	dead, ok := msg.(DeadMessage)
	require.True(t, ok)
	assert.Equal(t, mid.ID(), dead.ID)
}

func TestSendChildrenClonesUserPayload(t *testing.T) {
	root := New()
	c1 := root.NewChild()
	c2 := root.NewChild()

	root.SendChildren(Msg(&counter{}))

	m1, _ := c1.Recv()
	m2, _ := c2.Recv()
	p1 := m1.(UserMessage).Payload.(*counter)
	p2 := m2.(UserMessage).Payload.(*counter)
	assert.NotSame(t, p1, p2)
}

func TestRecvBlocksUntilPush(t *testing.T) {
	root := New()
	done := make(chan Message, 1)
	go func() {
		msg, ok := root.Recv()
		if ok {
			done <- msg
		}
	}()

	time.Sleep(10 * time.Millisecond)
	root.SendParent(nil) // no-op: root has no parent
	root.box.push(Msg("direct"))

	select {
	case msg := <-done:
		assert.Equal(t, Msg("direct"), msg)
	case <-time.After(time.Second):
		t.Fatal("Recv did not unblock")
	}
}

func TestPoisonPillChildrenReachesEveryChildExactlyOnceAndClearsRegistry(t *testing.T) {
	root := New()
	a := root.NewChild()
	b := root.NewChild()
	c := root.NewChild()

	root.PoisonPillChildren()

	for _, child := range []*Bus{a, b, c} {
		assert.Equal(t, 1, child.Len())
		msg, ok := child.Recv()
		require.True(t, ok)
		assert.Equal(t, PoisonPill, msg)
	}

	assert.False(t, root.RemoveChild(a.ID()))
	assert.False(t, root.RemoveChild(b.ID()))
	assert.False(t, root.RemoveChild(c.ID()))
}

func TestFaultedPropagatesThroughParentAndPoisonsChildsOwnChildren(t *testing.T) {
	root := New()
	parent := root.NewChild()
	child := parent.NewChild()
	grandchild := child.NewChild()

	child.Faulted()

	// the grandchild's poison pill is enqueued before the parent's
	// Faulted is, per-sender FIFO guarantees it's already there.
	msg, ok := grandchild.Recv()
	require.True(t, ok)
	assert.Equal(t, PoisonPill, msg)

	msg, ok = parent.Recv()
	require.True(t, ok)
	faulted, ok := msg.(FaultedMessage)
	require.True(t, ok)
	assert.Equal(t, child.ID(), faulted.ID)

	assert.False(t, child.RemoveChild(grandchild.ID()), "child's registry must already be cleared")

	_, ok = root.TryRecv()
	assert.False(t, ok, "only the immediate parent is notified, not the grandparent")
}

type counter struct{ n int }

func (c *counter) Clone() any { return &counter{n: c.n} }
