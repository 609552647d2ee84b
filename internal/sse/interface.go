package sse

import (
	"time"
)

// Event types sent to clients
const (
	EventConnected = "connected"
	EventStations  = "stations"
)

// Manager defines the interface for SSE client management
type Manager interface {
	// AddClient registers a client and returns its message channel
	AddClient(clientID string) <-chan Message

	// RemoveClient unregisters a client and closes its channel. ch is the
	// channel AddClient returned; if the ID has since been taken over by a
	// newer connection, nothing happens.
	RemoveClient(clientID string, ch <-chan Message)

	// HasClients returns true if there are any connected clients
	HasClients() bool

	// ClientCount returns the number of connected clients
	ClientCount() int

	// Broadcast sends a message to all connected clients without blocking
	Broadcast(message Message)

	// SetClientConnectCallback sets a callback run for each new client
	SetClientConnectCallback(callback func(clientID string))

	// NotifyClientConnected runs the connect callback for clientID
	NotifyClientConnected(clientID string)

	// SendToClient sends a message to one client without blocking
	SendToClient(clientID string, message Message)
}

// Message represents a Server-Sent Event message
type Message struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Summary is the payload of a stations event
type Summary struct {
	Version uint64 `json:"version"`
	Count   int    `json:"count"`
}
