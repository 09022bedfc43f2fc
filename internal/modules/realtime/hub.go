package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Message is the envelope pushed to connected clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// client serializes writes to one connection. gorilla/websocket allows at
// most one concurrent writer per connection, and Broadcast is entered from
// the change-feed goroutine and request goroutines at the same time.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

func (c *client) close() {
	_ = c.conn.Close()
}

// Hub tracks one websocket connection per user and fans catalog and
// booking events out to them. A reconnect replaces the previous
// connection for that user.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*client
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]*client)}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.conns[userID]; ok {
		old.close()
	}
	h.conns[userID] = &client{conn: conn}
}

func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cl, ok := h.conns[userID]; ok {
		cl.close()
		delete(h.conns, userID)
	}
}

// drop removes cl only while it is still the registered connection for
// userID; a reconnect may already have replaced it.
func (h *Hub) drop(userID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.conns[userID] == cl {
		cl.close()
		delete(h.conns, userID)
	}
}

// Broadcast sends the event to every connected client. Write failures drop
// the dead connection and never propagate.
func (h *Hub) Broadcast(msgType string, data any) {
	msg := Message{Type: msgType, Data: data}

	h.mu.RLock()
	targets := make(map[string]*client, len(h.conns))
	for id, cl := range h.conns {
		targets[id] = cl
	}
	h.mu.RUnlock()

	for id, cl := range targets {
		if err := cl.write(msg); err != nil {
			h.drop(id, cl)
		}
	}
}

// SendToUser delivers one event to a single user, reporting whether the
// user was connected and the write succeeded.
func (h *Hub) SendToUser(userID string, msgType string, data any) bool {
	h.mu.RLock()
	cl, ok := h.conns[userID]
	h.mu.RUnlock()

	if !ok {
		return false
	}
	if err := cl.write(Message{Type: msgType, Data: data}); err != nil {
		h.drop(userID, cl)
		return false
	}
	return true
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, cl := range h.conns {
		cl.close()
		delete(h.conns, id)
	}
}
