package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tivecs/finance/finance-backend/internal/event"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	ownerID  uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
}

func newMockClient(id string, ownerID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		ownerID:  ownerID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) OwnerID() uuid.UUID {
	return m.ownerID
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	owner1, owner2 := uuid.New(), uuid.New()

	client1 := newMockClient("client-1", owner1)
	client2 := newMockClient("client-2", owner1)
	client3 := newMockClient("client-3", owner2)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(owner1))
	assert.Equal(t, 1, hub.ClientCount(owner2))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(owner1))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.ClientCount(owner1))
	assert.Equal(t, 0, hub.ClientCount(owner2))
	assert.Equal(t, 0, hub.TotalClientCount())
}

func TestHub_Broadcast_OwnerIsolation(t *testing.T) {
	hub := NewHub()
	owner1, owner2 := uuid.New(), uuid.New()

	client1a := newMockClient("client-1a", owner1)
	client1b := newMockClient("client-1b", owner1)
	client2 := newMockClient("client-2", owner2)

	hub.Register(client1a)
	hub.Register(client1b)
	hub.Register(client2)

	hub.Broadcast(owner1, event.ExpenseCreated(map[string]interface{}{"id": "exp-1"}))

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, client1a.GetMessages(), 1, "client1a should receive 1 message")
	assert.Len(t, client1b.GetMessages(), 1, "client1b should receive 1 message")
	assert.Len(t, client2.GetMessages(), 0, "client2 should not receive another owner's event")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(client1a.GetMessages()[0], &decoded))
	assert.Equal(t, "expense.created", decoded["type"])
	assert.Equal(t, "expense", decoded["entity"])
}

func TestHub_Broadcast_MultipleFanOut(t *testing.T) {
	hub := NewHub()
	ownerID := uuid.New()

	clients := make([]*mockClient, 5)
	for i := 0; i < 5; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), ownerID)
		hub.Register(clients[i])
	}

	hub.Broadcast(ownerID, event.ExpenseUpdated(map[string]interface{}{"id": "exp-1"}))

	time.Sleep(10 * time.Millisecond)

	for i, c := range clients {
		assert.Len(t, c.GetMessages(), 1, "client %d should receive message", i)
	}
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	clientCount := 50
	owners := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), owners[i%len(owners)])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(owners[idx%len(owners)], event.ExpenseDeleted(map[string]interface{}{"id": idx}))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	for _, ownerID := range owners {
		assert.Equal(t, 0, hub.ClientCount(ownerID))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()
	client := newMockClient("client-1", uuid.New())

	require.NotPanics(t, func() {
		hub.Unregister(client)
	})
}

func TestHub_BroadcastToOwnerWithoutClients(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(uuid.New(), event.ExpenseCreated(map[string]interface{}{"id": "exp-1"}))
	})
}
