package events

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one connected feed subscriber
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan interface{} // Channel of events queued for this client
	Done chan struct{}    // Signal to stop reading/writing
}

// Manager tracks all active feed subscriptions
type Manager struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*Client),
	}
}

// AddClient registers a new subscriber connection
func (m *Manager) AddClient(id string, conn *websocket.Conn) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()

	client := &Client{
		ID:   id,
		Conn: conn,
		Send: make(chan interface{}, 32), // Buffered to absorb bursts
		Done: make(chan struct{}),
	}

	m.clients[id] = client
	return client
}

// RemoveClient unregisters a subscriber connection
func (m *Manager) RemoveClient(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, ok := m.clients[id]; ok {
		close(client.Done)
		delete(m.clients, id)
	}
}

// ClientCount returns the number of connected subscribers
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.clients)
}

// Broadcast fans an event out to every subscriber. Delivery is best-effort:
// a subscriber whose buffer is full misses the event rather than blocking
// the caller.
func (m *Manager) Broadcast(event interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients {
		select {
		case client.Send <- event:
		case <-client.Done:
		default:
		}
	}
}
