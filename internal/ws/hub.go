package ws

import (
	"context"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Client is the part of a websocket connection the hub writes to
type Client interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans out JSON frames to every connected dashboard / till screen
type Hub struct {
	Register   chan Client
	Unregister chan Client
	Broadcast  chan []byte

	mutex   sync.Mutex
	clients map[Client]bool
	log     *zap.Logger
	done    chan struct{}
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		Register:   make(chan Client),
		Unregister: make(chan Client),
		Broadcast:  make(chan []byte, 64),
		clients:    make(map[Client]bool),
		log:        log,
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes all clients.
// Join, Leave and Send become no-ops once Run has returned.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("ws client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.log.Debug("dropping ws client", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Join adds a client. A client joining a stopped hub is closed.
func (h *Hub) Join(c Client) {
	select {
	case h.Register <- c:
	case <-h.done:
		c.Close()
	}
}

// Leave removes and closes a client.
func (h *Hub) Leave(c Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Send queues a frame without blocking the caller
func (h *Hub) Send(message []byte) {
	select {
	case h.Broadcast <- message:
	case <-h.done:
	default:
		go func() {
			select {
			case h.Broadcast <- message:
			case <-h.done:
			}
		}()
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}
