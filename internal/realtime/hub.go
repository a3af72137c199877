package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ardenlow/pulsegram/backend/internal/models"
)

// Event is the lightweight payload pushed to connected recipients when a
// notification row is recorded. It mirrors what the ledger stores but
// carries a sender summary instead of a bare id.
type Event struct {
	ID        uint               `json:"id"`
	Type      string             `json:"type"`
	Message   string             `json:"message"`
	Sender    models.UserCompact `json:"sender"`
	CreatedAt time.Time          `json:"created_at"`
	IsRead    bool               `json:"is_read"`
}

// Conn is one live delivery channel registered under a recipient.
// Connections are ephemeral: nothing about them is persisted and the
// registry is rebuilt as clients reconnect.
type Conn struct {
	sendCh chan []byte
}

// Receive returns the channel serialized events arrive on. The channel is
// closed when the connection is unsubscribed.
func (c *Conn) Receive() <-chan []byte {
	return c.sendCh
}

// Hub maps recipient ids to their live connections and broadcasts events
// to every connection of a recipient. Delivery is best-effort and
// at-most-once: recipients without a connection miss the push, and slow
// connections drop events rather than block the sender.
type Hub struct {
	mu    sync.RWMutex
	conns map[uint]map[*Conn]struct{}
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{conns: make(map[uint]map[*Conn]struct{})}
}

// Subscribe registers a new connection under the recipient id. Multiple
// connections per recipient are allowed and treated as a broadcast group.
func (h *Hub) Subscribe(recipientID uint) *Conn {
	conn := &Conn{sendCh: make(chan []byte, 16)}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[recipientID] == nil {
		h.conns[recipientID] = make(map[*Conn]struct{})
	}
	h.conns[recipientID][conn] = struct{}{}
	return conn
}

// Unsubscribe removes a connection from the registry and closes its
// channel. Safe to call for a connection that was already removed.
func (h *Hub) Unsubscribe(recipientID uint, conn *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[recipientID]
	if !ok {
		return
	}
	if _, ok := set[conn]; !ok {
		return
	}
	delete(set, conn)
	close(conn.sendCh)
	if len(set) == 0 {
		delete(h.conns, recipientID)
	}
}

// Publish pushes an event to every live connection of the recipient.
// It never blocks: a full connection buffer drops the event for that
// connection, and an absent recipient is a no-op. The ledger row is the
// durability guarantee; this push is a convenience.
func (h *Hub) Publish(recipientID uint, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.conns[recipientID] {
		select {
		case conn.sendCh <- data:
		default:
			// Connection too slow, skip this event for it
		}
	}
}

// ConnectionCount reports the number of live connections for a recipient
func (h *Hub) ConnectionCount(recipientID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[recipientID])
}
