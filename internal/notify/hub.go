package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// RefreshEvent is broadcast to every connected viewer whenever the
// aggregate is rebuilt, so open landing pages can reload their edition
// list without polling.
type RefreshEvent struct {
	Type     string    `json:"type"` // "editions.refreshed"
	Date     string    `json:"date"`
	Editions int       `json:"editions"`
	At       time.Time `json:"at"`
}

func NewRefreshEvent(date string, editions int) RefreshEvent {
	return RefreshEvent{
		Type:     "editions.refreshed",
		Date:     date,
		Editions: editions,
		At:       time.Now().UTC(),
	}
}

// Hub fans events out to connected websocket clients.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastJSON sends v to every client, dropping clients whose writes
// fail.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	b = append(b, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	for ws := range h.clients {
		_ = ws.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
			_ = ws.Close()
			delete(h.clients, ws)
		}
	}
}
