package event

import "github.com/google/uuid"

// Publisher delivers events to everything listening on behalf of an owner.
// Delivery is best-effort; implementations log their own failures.
type Publisher interface {
	Publish(ownerID uuid.UUID, ev Event)
}

// NoOp drops every event (used when no sink is configured)
type NoOp struct{}

func (NoOp) Publish(uuid.UUID, Event) {}

// Multi fans an event out to several publishers in order
type Multi []Publisher

func (m Multi) Publish(ownerID uuid.UUID, ev Event) {
	for _, p := range m {
		p.Publish(ownerID, ev)
	}
}
