package amqp

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/tivecs/finance/finance-backend/internal/event"
)

// ChangeMessage is the body published for every expense change
type ChangeMessage struct {
	OwnerID uuid.UUID   `json:"ownerId"`
	Event   event.Event `json:"event"`
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
