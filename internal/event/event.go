package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type represents what happened to an entity
type Type string

const (
	TypeCreated Type = "created"
	TypeUpdated Type = "updated"
	TypeDeleted Type = "deleted"
)

// Entity represents the kind of entity an event is about
type Entity string

const (
	EntityExpense Entity = "expense"
)

// Event is a change notification pushed to an owner's clients.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string    `json:"type"` // e.g. "expense.created"
	Entity    Entity    `json:"entity"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an event stamped with the current time
func New(eventType Type, entity Entity, payload any) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entity, eventType),
		Entity:    entity,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON serializes the event
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ExpenseCreated(payload any) Event {
	return New(TypeCreated, EntityExpense, payload)
}

func ExpenseUpdated(payload any) Event {
	return New(TypeUpdated, EntityExpense, payload)
}

func ExpenseDeleted(payload any) Event {
	return New(TypeDeleted, EntityExpense, payload)
}
