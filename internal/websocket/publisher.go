package websocket

import (
	"github.com/google/uuid"
	"github.com/tivecs/finance/finance-backend/internal/event"
)

// Ensure Hub implements event.Publisher
var _ event.Publisher = (*Hub)(nil)

// Publish implements event.Publisher by broadcasting the event to the owner's connections
func (h *Hub) Publish(ownerID uuid.UUID, ev event.Event) {
	h.Broadcast(ownerID, ev)
}
