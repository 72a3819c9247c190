package socket

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks connected dashboard clients grouped by dealership so key events
// can be pushed to everyone watching that lot.
type Hub struct {
	// clients maps a connection to the dealership it is scoped to. An empty
	// dealership ID marks an owner session, which receives every event.
	clients map[*websocket.Conn]string
	mu      sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
	}
}

// Register adds a client scoped to a dealership.
func (h *Hub) Register(conn *websocket.Conn, dealershipID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = dealershipID
	log.Printf("WebSocket client registered (dealership=%q)", dealershipID)
}

// Unregister removes a client.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		log.Println("WebSocket client unregistered")
	}
}

// KeyEvent is the payload pushed to dashboards when a key changes state.
type KeyEvent struct {
	Event        string `json:"event"`
	KeyID        string `json:"key_id"`
	StockNumber  string `json:"stock_number"`
	DealershipID string `json:"dealership_id"`
	UserName     string `json:"user_name"`
}

// Broadcast sends an event to every client of the dealership plus all owner
// sessions. Send failures are logged and otherwise ignored; the client will
// reconnect.
func (h *Hub) Broadcast(event KeyEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal key event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, dealershipID := range h.clients {
		if dealershipID != "" && dealershipID != event.DealershipID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			log.Printf("Failed to push key event: %v", err)
		}
	}
}
