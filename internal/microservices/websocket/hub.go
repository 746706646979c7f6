package websocket

// Central hub managing all live notification connections.
// Connections are grouped by user id; admin users additionally join the
// admins group, mirroring the visibility split of the notification store.

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type Hub struct {
	mu     sync.RWMutex
	users  map[uuid.UUID]map[*Client]bool // userID -> connections
	admins map[*Client]bool               // connections of admin users
}

func NewHub() *Hub {
	return &Hub{
		users:  make(map[uuid.UUID]map[*Client]bool),
		admins: make(map[*Client]bool),
	}
}

// Register adds a client to its user group, and to the admins group when the
// connection belongs to an admin.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.users[c.UserID]
	if conns == nil {
		conns = make(map[*Client]bool)
		h.users[c.UserID] = conns
	}
	conns[c] = true

	if c.IsAdmin {
		h.admins[c] = true
	}
	slog.Info("ws client registered", "user_id", c.UserID, "admin", c.IsAdmin)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.users[c.UserID]; ok {
		if conns[c] {
			delete(conns, c)
			close(c.SendChannel)
		}
		if len(conns) == 0 {
			delete(h.users, c.UserID)
		}
	}
	delete(h.admins, c)
}

// PushToUser sends an event to every active connection of one user.
// Offline users receive nothing; delivery failure is invisible to callers.
func (h *Hub) PushToUser(userID uuid.UUID, event string, payload any) {
	envelope := &Envelope{Event: event, Data: payload}
	data, err := envelope.ToJSON()
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.users[userID] {
		c.send(data)
	}
}

// PushToAdmins sends an event to every connection in the admins group.
func (h *Hub) PushToAdmins(event string, payload any) {
	envelope := &Envelope{Event: event, Data: payload}
	data, err := envelope.ToJSON()
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.admins {
		c.send(data)
	}
}

// ConnectionCount returns the number of active connections for a user.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// AdminConnectionCount returns the number of connections in the admins group.
func (h *Hub) AdminConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.admins)
}
