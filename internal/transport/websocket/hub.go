// Package websocket serves 2048 sessions to browsers over WebSocket.
// Each player connection owns a session; spectators can watch any
// session and receive the same state frames as the player.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Frames buffered per client before it is dropped as too slow.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Sessions carry no credentials, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket connection attached to a session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	player    bool // Player connections may send moves
}

// SessionID returns the session the client is attached to.
func (c *Client) SessionID() string {
	return c.sessionID
}

type envelope struct {
	sessionID string
	client    *Client // Set for frames addressed to a single client
	data      []byte
}

// Hub fans frames out to the clients of each session. Only the Run
// goroutine writes to client send channels.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}

	logger *log.Logger
}

// NewHub creates a hub. Call Run to start delivering frames.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run delivers frames until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

// Register attaches c to its session.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister detaches c and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast sends v as JSON to every client of sessionID.
func (h *Hub) Broadcast(sessionID string, v any) {
	h.enqueue(envelope{sessionID: sessionID}, v)
}

// Send sends v as JSON to c alone.
func (h *Hub) Send(c *Client, v any) {
	h.enqueue(envelope{sessionID: c.sessionID, client: c}, v)
}

func (h *Hub) enqueue(env envelope, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("cannot marshal frame", "session", env.sessionID, "err", err)
		return
	}
	env.data = data

	select {
	case h.broadcast <- env:
	case <-h.done:
	}
}

// Clients returns the number of connections attached to sessionID.
func (h *Hub) Clients(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[c.sessionID] == nil {
		h.sessions[c.sessionID] = make(map[*Client]bool)
	}
	h.sessions[c.sessionID][c] = true

	h.logger.Debug("client registered", "session", c.sessionID, "player", c.player, "clients", len(h.sessions[c.sessionID]))
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	clients, ok := h.sessions[c.sessionID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}
	h.logger.Debug("client unregistered", "session", c.sessionID, "clients", len(clients))
}

func (h *Hub) deliver(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if env.client != nil {
		if h.sessions[env.sessionID][env.client] {
			h.push(env.client, env.data)
		}
		return
	}
	for c := range h.sessions[env.sessionID] {
		h.push(c, env.data)
	}
}

// push queues data for c, dropping the client when its buffer is full.
func (h *Hub) push(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.logger.Warn("dropping slow client", "session", c.sessionID)
		h.removeLocked(c)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.sessions {
		for c := range clients {
			h.removeLocked(c)
		}
	}
}

// readPump reads frames from the connection until it fails. Player
// frames are passed to handle.
func (c *Client) readPump(handle func(*Client, []byte), onClose func()) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		if onClose != nil {
			onClose()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", "session", c.sessionID, "err", err)
			}
			return
		}
		if c.player && handle != nil {
			handle(c, data)
		}
	}
}

// writePump writes queued frames and keeps the connection alive with
// pings. Each frame is sent as its own text message.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
