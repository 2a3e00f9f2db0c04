package ws

import (
	"encoding/json"
	"sync"
)

// Message is the envelope every feed frame is sent in.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Client represents a single WebSocket connection with user context.
type Client struct {
	Username string
	Role     string
	Send     chan []byte
	Hub      *Hub // set by Register so Close can unregister
	mu       sync.Mutex
	closed   bool
}

func NewClient(username, role string) *Client {
	return &Client{Username: username, Role: role, Send: make(chan []byte, 256)}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if c.Hub != nil {
		c.Hub.unregister(c)
	}
	close(c.Send)
}

// Hub maintains the set of active clients and broadcasts to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// username -> clients (one user can have multiple tabs open)
	byUser map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byUser:  make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.Hub = h
	h.clients[c] = struct{}{}
	if h.byUser[c.Username] == nil {
		h.byUser[c.Username] = make(map[*Client]struct{})
	}
	h.byUser[c.Username][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byUser[c.Username]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byUser, c.Username)
		}
	}
}

// BroadcastToUser sends to every connection of one user. Slow clients drop frames.
func (h *Hub) BroadcastToUser(username string, msg Message) {
	h.mu.RLock()
	m := h.byUser[username]
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	h.send(clients, msg)
}

// BroadcastAll sends to every connected client. Slow clients drop frames.
func (h *Hub) BroadcastAll(msg Message) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	h.send(clients, msg)
}

func (h *Hub) send(clients []*Client, msg Message) {
	if len(clients) == 0 {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	for _, c := range clients {
		c.trySend(data)
	}
}

func (c *Client) trySend(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
