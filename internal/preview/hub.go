package preview

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultWriteWait bounds every write to a client so a stalled browser is
// dropped instead of holding up the others.
const DefaultWriteWait = 5 * time.Second

// connWithMutex wraps a WebSocket connection with its own mutex for thread-safe writes.
type connWithMutex struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub tracks preview clients and broadcasts document updates to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]*connWithMutex
	writeWait   time.Duration
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]*connWithMutex),
		writeWait:   DefaultWriteWait,
	}
}

func (h *Hub) write(conn *websocket.Conn, message interface{}) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(message)
}

// Add registers a connection.
func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn] = &connWithMutex{conn: conn}
}

// Remove forgets a connection.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, conn)
}

// Len reports the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Broadcast sends message to every client, dropping clients whose write fails.
func (h *Hub) Broadcast(message interface{}) {
	h.mu.RLock()
	conns := make([]*connWithMutex, 0, len(h.connections))
	for _, cwm := range h.connections {
		conns = append(conns, cwm)
	}
	h.mu.RUnlock()

	for _, cwm := range conns {
		cwm.mu.Lock()
		err := h.write(cwm.conn, message)
		cwm.mu.Unlock()

		if err != nil {
			h.Remove(cwm.conn)
			cwm.conn.Close()
		}
	}
}

// WriteJSON writes to a single connection using its mutex.
func (h *Hub) WriteJSON(conn *websocket.Conn, message interface{}) error {
	h.mu.RLock()
	cwm, exists := h.connections[conn]
	h.mu.RUnlock()

	if !exists {
		return h.write(conn, message)
	}

	cwm.mu.Lock()
	defer cwm.mu.Unlock()
	return h.write(cwm.conn, message)
}

// CloseAll closes every connection.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := h.connections
	h.connections = make(map[*websocket.Conn]*connWithMutex)
	h.mu.Unlock()

	for _, cwm := range conns {
		cwm.mu.Lock()
		_ = cwm.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		_ = cwm.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		cwm.mu.Unlock()
		cwm.conn.Close()
	}
}
