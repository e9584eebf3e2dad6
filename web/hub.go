package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Uranury/dhtplug/host"
)

// DefaultWriteWait bounds one broadcast write so a stalled client cannot
// hold up the heartbeat.
const DefaultWriteWait = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub tracks websocket clients and broadcasts device updates to them.
// It is a host.Sink.
type Hub struct {
	mu        sync.Mutex
	clients   map[*websocket.Conn]host.Connection
	writeWait time.Duration
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*websocket.Conn]host.Connection),
		writeWait: DefaultWriteWait,
	}
}

func (h *Hub) Name() string { return "websocket" }

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(conn *websocket.Conn) host.Connection {
	c := host.Connection{
		ID:      uuid.NewString(),
		Name:    "websocket",
		Address: conn.RemoteAddr().String(),
	}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Publish sends d to every client, dropping the ones that fail.
func (h *Hub) Publish(d host.Device) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		err := client.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err == nil {
			err = client.WriteJSON(d)
		}
		if err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
	return nil
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}
