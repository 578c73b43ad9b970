package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/core/observability/log"
	"github.com/miles-hollifield/BuildingGameAI-sub000/internal/sim"
)

const (
	// clientSendBuffer is how many snapshots a viewer may fall behind
	// before it is dropped.
	clientSendBuffer = 16
	// maxCommandBytes bounds a single inbound command frame.
	maxCommandBytes = 4096
	writeTimeout    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Viewers are local tooling, often opened from file:// pages.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans simulation snapshots out to WebSocket viewers and feeds the
// commands they send back into the loop. It implements http.Handler so
// it can be mounted on any mux.
type Hub struct {
	sink CommandSink
	log  log.Log

	mu      sync.Mutex
	clients map[*client]bool
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub returns a hub with no connected viewers.
func NewHub(sink CommandSink, logger log.Log) *Hub {
	return &Hub{
		sink:    sink,
		log:     logger,
		clients: make(map[*client]bool),
	}
}

// ServeHTTP upgrades the request and starts the viewer's pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, clientSendBuffer)}
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.log.Info("viewer connected",
		log.String("remote", conn.RemoteAddr().String()),
		log.Int("viewers", total))

	go c.writePump()
	go c.readPump()
}

// Clients reports how many viewers are connected.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends one encoded snapshot to every viewer. Viewers whose
// send buffer is full are disconnected rather than allowed to stall
// the loop.
func (h *Hub) Broadcast(payload []byte) {
	var stale []*client
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			delete(h.clients, c)
			close(c.send)
			stale = append(stale, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stale {
		_ = c.conn.Close()
		h.log.Warn("viewer dropped",
			log.String("remote", c.conn.RemoteAddr().String()),
			log.String("reason", "send buffer full"))
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}

// drop disconnects one viewer. Safe to call from both pumps.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (c *client) readPump() {
	defer c.hub.drop(c)
	c.conn.SetReadLimit(maxCommandBytes)

	for {
		var cmd sim.Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.log.Debug("viewer read failed", log.Error(err))
			}
			return
		}
		if err := cmd.Validate(); err != nil {
			c.hub.log.Warn("command rejected", log.Error(err))
			continue
		}
		c.hub.sink.Enqueue(cmd)
	}
}

func (c *client) writePump() {
	defer c.hub.drop(c)

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	// Channel closed: the hub is saying goodbye.
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
