package web

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Hub fans the latest calibration payload out to connected chart clients.
type Hub struct {
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	conns      map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 8),
		conns:      make(map[*websocket.Conn]bool),
	}
}

// Run owns the connection set. Call once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.conns[c] = true
		case c := <-h.unregister:
			if h.conns[c] {
				delete(h.conns, c)
				c.Close()
			}
		case msg := <-h.broadcast:
			for c := range h.conns {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					delete(h.conns, c)
					c.Close()
				}
			}
		}
	}
}

// Broadcast queues a payload for every connected client.
func (h *Hub) Broadcast(msg []byte) {
	h.broadcast <- msg
}

var upgrader = websocket.Upgrader{
	// Local viewer; the browser page may be served from file:// during
	// development.
	CheckOrigin: func(*http.Request) bool { return true },
}

func serveWs(h *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	h.register <- conn
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister <- conn
				return
			}
		}
	}()
}
