// Package realtime pushes tenant events to connected operator sessions over
// websockets. Delivery is best effort: a slow or broken connection is dropped,
// never waited on.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"rentalfleet-backend/internal/logger"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 16
)

// Event is a message broadcast to a tenant's operators.
type Event struct {
	Kind    string `json:"kind"`
	Payload any    `json:"payload,omitempty"`
}

// client pairs a connection with its outbound queue. writePump is the only
// goroutine that writes to the connection; gorilla/websocket allows at most
// one concurrent writer per conn.
type client struct {
	hub      *Hub
	tenantID uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
}

// Hub tracks open operator connections per tenant.
type Hub struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[uuid.UUID]map[*client]struct{})}
}

// Register adds an operator connection for the tenant, starts its writer
// pump and returns an unregister func the connection handler defers.
func (h *Hub) Register(tenantID uuid.UUID, conn *websocket.Conn) func() {
	c := &client{hub: h, tenantID: tenantID, conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.conns[tenantID] == nil {
		h.conns[tenantID] = make(map[*client]struct{})
	}
	h.conns[tenantID][c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()

	return func() { h.drop(c) }
}

// Broadcast queues the event for every connection of the tenant. A client
// whose queue is full is dropped rather than waited on; the caller never
// sees an error.
func (h *Hub) Broadcast(tenantID uuid.UUID, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal realtime event", "tenant_id", tenantID, "kind", event.Kind, "error", err)
		return
	}

	// Queueing happens under the read lock: drop closes the queue under the
	// write lock, so a send can never race a close.
	var full []*client
	h.mu.RLock()
	for c := range h.conns[tenantID] {
		select {
		case c.send <- data:
		default:
			full = append(full, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range full {
		logger.Warn("Dropping slow realtime connection", "tenant_id", tenantID)
		h.drop(c)
	}
}

// ConnectionCount reports open connections for the tenant.
func (h *Hub) ConnectionCount(tenantID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[tenantID])
}

// writePump drains the queue onto the connection until the queue closes or a
// write fails.
func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Warn("Dropping realtime connection", "tenant_id", c.tenantID, "error", err)
			c.hub.drop(c)
			return
		}
	}
}

// drop removes the client and closes its queue exactly once, regardless of
// whether the unregister func, a failed write or a full queue triggered it.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if set, ok := h.conns[c.tenantID]; ok {
		if _, present := set[c]; present {
			delete(set, c)
			if len(set) == 0 {
				delete(h.conns, c.tenantID)
			}
			close(c.send)
		}
	}
	h.mu.Unlock()
}
