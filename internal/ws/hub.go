package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"swap-service/internal/models"
	"swap-service/internal/observability"
)

// Hub maintains active websocket rooms, one per swap conversation.
type Hub struct {
	rooms    map[int]map[*websocket.Conn]bool
	connInfo map[int]map[*websocket.Conn]ConnInfo
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[int]map[*websocket.Conn]bool),
		connInfo: make(map[int]map[*websocket.Conn]ConnInfo),
	}
}

// AddClient registers a websocket connection to a swap's room.
func (h *Hub) AddClient(swapID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[swapID]; !ok {
		h.rooms[swapID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[swapID][conn] = true
	if _, ok := h.connInfo[swapID]; !ok {
		h.connInfo[swapID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.connInfo[swapID][conn] = info
}

// RemoveClient removes a websocket connection from a swap's room.
func (h *Hub) RemoveClient(swapID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[swapID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, swapID)
		}
	}
	if infos, ok := h.connInfo[swapID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.connInfo, swapID)
		}
	}
}

// BroadcastMessage sends a new chat message to all clients in the swap's room.
func (h *Hub) BroadcastMessage(swapID int, msg models.MessageView) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.rooms[swapID]))
	for conn := range h.rooms[swapID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	event := models.ChatEvent{Type: "message", Message: &msg}
	payload, _ := json.Marshal(event)
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.RemoveClient(swapID, conn)
			observability.IncWSEvent("ws_error")
		}
	}
}

// RoomSize reports how many connections a swap room holds.
func (h *Hub) RoomSize(swapID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[swapID])
}
