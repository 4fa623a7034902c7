package broadcast

import "github.com/google/uuid"

// Message is the closed set of supervision messages a Bus can carry.
// Only the types defined in this file implement it.
type Message interface {
	isMessage()
	// Clone returns an independent copy of the message, deep-copying a
	// user payload if it implements [Cloner].
	Clone() Message
}

// Cloner is implemented by user payloads that need an explicit deep copy
// when broadcast to multiple children via SendChildren. Payloads that
// don't implement it are copied shallowly (the same value is handed to
// every recipient).
type Cloner interface {
	Clone() any
}

// PoisonPillMessage asks its recipient to shut down.
type PoisonPillMessage struct{}

func (PoisonPillMessage) isMessage()     {}
func (PoisonPillMessage) Clone() Message { return PoisonPillMessage{} }

// PoisonPill is the single PoisonPillMessage value; sends of it don't need
// to allocate.
var PoisonPill Message = PoisonPillMessage{}

// DeadMessage reports that the actor identified by ID terminated
// normally.
type DeadMessage struct {
	ID uuid.UUID
}

func (DeadMessage) isMessage()     {}
func (m DeadMessage) Clone() Message { return DeadMessage{ID: m.ID} }

// Dead builds a DeadMessage.
func Dead(id uuid.UUID) Message { return DeadMessage{ID: id} }

// FaultedMessage reports that the actor identified by ID terminated
// abnormally.
type FaultedMessage struct {
	ID uuid.UUID
}

func (FaultedMessage) isMessage()       {}
func (m FaultedMessage) Clone() Message { return FaultedMessage{ID: m.ID} }

// Faulted builds a FaultedMessage.
func Faulted(id uuid.UUID) Message { return FaultedMessage{ID: id} }

// UserMessage carries an application-defined payload between actors.
type UserMessage struct {
	Payload any
}

func (UserMessage) isMessage() {}

func (m UserMessage) Clone() Message {
	if c, ok := m.Payload.(Cloner); ok {
		return UserMessage{Payload: c.Clone()}
	}
	return UserMessage{Payload: m.Payload}
}

// Msg wraps an application payload as a Message.
func Msg(payload any) Message { return UserMessage{Payload: payload} }
