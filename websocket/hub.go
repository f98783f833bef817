package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// Hub manages all WebSocket connections and fans booking events out to
// the users they concern
type Hub struct {
	// Registered clients keyed by user ID
	Clients map[uint]*Client

	// Broadcast channel for notifications to all clients
	Broadcast chan *Notification

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu sync.RWMutex
}

// Notification is a server-pushed event about a booking, gig, or payment
type Notification struct {
	Type        string      `json:"type"`
	UserID      uint        `json:"user_id,omitempty"`
	Description string      `json:"description,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Data        interface{} `json:"data,omitempty"`
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[uint]*Client),
		Broadcast:  make(chan *Notification, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if existing, ok := h.Clients[client.ID]; ok {
				close(existing.Send)
			}
			h.Clients[client.ID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client registered: ID=%d, Role=%s", client.ID, client.Role)

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.ID]; ok && current == client {
				delete(h.Clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("🔌 Client unregistered: ID=%d, Role=%s", client.ID, client.Role)

		case notification := <-h.Broadcast:
			h.broadcastNotification(notification)
		}
	}
}

// broadcastNotification sends a notification to all connected clients
func (h *Hub) broadcastNotification(notification *Notification) {
	data, err := json.Marshal(notification)
	if err != nil {
		log.Printf("❌ Error marshaling notification: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
			log.Printf("⚠️ Client %d send buffer full, skipping", client.ID)
		}
	}
}

// SendToUser delivers a notification to one connected user. Users who
// are offline simply miss the push; the activity log remains the
// durable record.
func (h *Hub) SendToUser(userID uint, notification *Notification) {
	if notification.Timestamp.IsZero() {
		notification.Timestamp = time.Now()
	}
	notification.UserID = userID

	data, err := json.Marshal(notification)
	if err != nil {
		log.Printf("❌ Error marshaling notification: %v", err)
		return
	}

	h.mu.RLock()
	client, ok := h.Clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("⚠️ Client %d send buffer full, dropping notification", userID)
	}
}

// ConnectedUsers returns the IDs of currently connected users
func (h *Hub) ConnectedUsers() []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uint, 0, len(h.Clients))
	for id := range h.Clients {
		ids = append(ids, id)
	}
	return ids
}
