package feed

import (
	"sync"

	"github.com/gorilla/websocket"

	"hotelreserve/internal/domain"
)

// Hub fans committed reservations out to connected staff dashboards.
// Delivery is best effort: a failed write drops the connection and
// never fails the reservation that triggered it.
type Hub struct {
	connections map[int64]*websocket.Conn
	mutex       sync.RWMutex
}

type Event struct {
	Type        string              `json:"type"`
	Reservation *domain.Reservation `json:"reservation"`
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*websocket.Conn),
	}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if oldConn, exists := h.connections[userID]; exists && oldConn != nil {
		_ = oldConn.Close()
	}

	h.connections[userID] = conn
}

func (h *Hub) Unregister(userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conn, exists := h.connections[userID]; exists && conn != nil {
		_ = conn.Close()
		delete(h.connections, userID)
	}
}

// PublishReservation implements reservation.Publisher.
func (h *Hub) PublishReservation(res *domain.Reservation) {
	h.broadcast(Event{Type: "reservation.created", Reservation: res})
}

func (h *Hub) broadcast(event Event) {
	h.mutex.RLock()
	conns := make(map[int64]*websocket.Conn, len(h.connections))
	for id, conn := range h.connections {
		conns[id] = conn
	}
	h.mutex.RUnlock()

	for id, conn := range conns {
		if conn == nil {
			continue
		}
		if err := conn.WriteJSON(event); err != nil {
			h.Unregister(id)
		}
	}
}

func (h *Hub) ConnectedCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for id, conn := range h.connections {
		if conn != nil {
			_ = conn.Close()
		}
		delete(h.connections, id)
	}
}
