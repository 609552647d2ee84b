package sse

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

const clientBuffer = 16

// manager implements the SSE Manager interface
type manager struct {
	clients map[string]chan Message
	mu      sync.RWMutex

	onConnect   func(clientID string)
	onConnectMu sync.RWMutex
}

// NewManager creates a new SSE manager instance
func NewManager() Manager {
	return &manager{
		clients: make(map[string]chan Message),
	}
}

// AddClient registers a client, replacing any client with the same ID
func (m *manager) AddClient(clientID string) <-chan Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.clients[clientID]; ok {
		close(existing)
		delete(m.clients, clientID)
	}

	clientChan := make(chan Message, clientBuffer)
	m.clients[clientID] = clientChan

	glog.Infof("SSE client connected: %s (total: %d)", clientID, len(m.clients))

	return clientChan
}

// RemoveClient unregisters a client if ch is still its current channel
func (m *manager) RemoveClient(clientID string, ch <-chan Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clientChan, ok := m.clients[clientID]
	if !ok || (<-chan Message)(clientChan) != ch {
		return
	}

	close(clientChan)
	delete(m.clients, clientID)
	glog.Infof("SSE client disconnected: %s (remaining: %d)", clientID, len(m.clients))
}

func (m *manager) HasClients() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.clients) > 0
}

func (m *manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.clients)
}

// Broadcast sends a message to all connected clients
func (m *manager) Broadcast(message Message) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	message = stamp(message)

	for clientID, clientChan := range m.clients {
		select {
		case clientChan <- message:
		default:
			glog.Warningf("SSE client %s channel full, skipping message", clientID)
		}
	}

	if len(m.clients) > 0 {
		glog.V(1).Infof("Broadcasted SSE message type=%s to %d clients", message.Type, len(m.clients))
	}
}

func (m *manager) SetClientConnectCallback(callback func(clientID string)) {
	m.onConnectMu.Lock()
	defer m.onConnectMu.Unlock()

	m.onConnect = callback
}

func (m *manager) NotifyClientConnected(clientID string) {
	m.onConnectMu.RLock()
	callback := m.onConnect
	m.onConnectMu.RUnlock()

	if callback != nil {
		callback(clientID)
	}
}

// SendToClient sends a message to a single client
func (m *manager) SendToClient(clientID string, message Message) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clientChan, ok := m.clients[clientID]
	if !ok {
		return
	}

	select {
	case clientChan <- stamp(message):
	default:
		glog.Warningf("SSE client %s channel full, skipping message", clientID)
	}
}

// stamp fills in the timestamp and ID when unset
func stamp(message Message) Message {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}
	if message.ID == 0 {
		message.ID = message.Timestamp.UnixMilli()
	}
	return message
}
