// Package chat runs one discussion room per trip over websockets.
// Messages stage in Redis and flush to Mongo in bulk.
package chat

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client is one open socket in a trip room.
type Client struct {
	Conn     *websocket.Conn
	Send     chan []byte
	Room     string // trip id
	UserID   string
	UserName string
}

type broadcastMsg struct {
	Room string
	Data []byte
}

// Hub fans messages out to every socket in a room. All membership
// changes go through the channels; the mutex only guards the map against
// the broadcast path.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.Room] == nil {
				h.rooms[c.Room] = make(map[*Client]bool)
			}
			h.rooms[c.Room][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.rooms[c.Room]; conns != nil {
				if conns[c] {
					delete(conns, c)
					close(c.Send)
				}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.Room] {
				select {
				case c.Send <- m.Data:
				default:
					// slow consumer, drop the socket
					close(c.Send)
					delete(h.rooms[m.Room], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.quit)
}

// Broadcast queues data for every socket in room.
func (h *Hub) Broadcast(room string, data []byte) {
	h.broadcast <- broadcastMsg{Room: room, Data: data}
}
