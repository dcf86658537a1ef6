package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans events out to every connected websocket client. Clients only
// listen; anything they send is discarded.
type Hub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the clients map; all membership changes and writes go through
// these channels so no lock is needed.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
		case message := <-h.broadcast:
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// BroadcastEvent sends a named event with its payload to all clients.
func (h *Hub) BroadcastEvent(event string, payload interface{}) {
	message, err := json.Marshal(gin.H{"event": event, "data": payload})
	if err != nil {
		log.Printf("broadcast marshal %s: %v", event, err)
		return
	}
	select {
	case h.broadcast <- message:
	default:
		log.Printf("broadcast channel full, dropping %s", event)
	}
}

// handleWS upgrades the connection and parks a reader goroutine that only
// watches for the client going away.
func (s *Server) handleWS() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("websocket upgrade: %v", err)
			return
		}
		s.Hub.register <- conn

		go func() {
			defer func() {
				s.Hub.unregister <- conn
			}()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
