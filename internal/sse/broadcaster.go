package sse

import (
	"sync"
	"time"

	"github.com/aaronzipp/distance-resistance/internal/log"
	"github.com/aaronzipp/distance-resistance/internal/metrics"
	"github.com/aaronzipp/distance-resistance/internal/models"
)

// Message is one event sent to a stream client
type Message struct {
	Event string
	Data  string
}

// Client is a subscription for one connected player
type Client struct {
	C         chan Message
	sessionID string
	key       models.PlayerKey
}

// Hub fans session events out to connected clients
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[*Client]struct{}
	buffer   int
	timeout  time.Duration
	closed   bool

	// sending holds one *sync.Mutex per session id; broadcasts to a session
	// run one at a time so clients see updates in order
	sending sync.Map
}

// NewHub creates a hub whose client channels hold buffer messages and whose
// sends give up on a client after timeout
func NewHub(buffer int, timeout time.Duration) *Hub {
	return &Hub{
		sessions: make(map[string]map[*Client]struct{}),
		buffer:   buffer,
		timeout:  timeout,
	}
}

// Subscribe registers a client for a session. It returns nil once the hub is closed.
func (h *Hub) Subscribe(sessionID string, key models.PlayerKey) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}

	// Warn if the same player has multiple connections
	dup := 0
	for c := range h.sessions[sessionID] {
		if c.key == key {
			dup++
		}
	}
	if dup > 0 {
		logger := log.WithSession("sse", sessionID)
		logger.Warn().Int("existing", dup).Msg("player opened an additional event stream")
	}

	c := &Client{C: make(chan Message, h.buffer), sessionID: sessionID, key: key}
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[*Client]struct{})
	}
	h.sessions[sessionID][c] = struct{}{}
	metrics.SSEClientConnected()
	return c
}

// Unsubscribe removes a client and closes its channel
func (h *Hub) Unsubscribe(c *Client) {
	if c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.sessions[c.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.sessions, c.sessionID)
	}
	close(c.C)
	metrics.SSEClientDisconnected()
}

// ClientCount returns the number of clients subscribed to a session
func (h *Hub) ClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Broadcast sends a message to every client of a session and returns how many
// received it. Slow clients are skipped after the hub timeout.
func (h *Hub) Broadcast(sessionID, event, data string) int {
	msg := Message{Event: event, Data: data}
	return h.BroadcastPersonalized(sessionID, func(models.PlayerKey) Message { return msg })
}

// BroadcastPersonalized renders a message per client. Broadcasts to the same
// session are serialized, and render runs right before each send.
func (h *Hub) BroadcastPersonalized(sessionID string, render func(key models.PlayerKey) Message) int {
	lock, _ := h.sending.LoadOrStore(sessionID, &sync.Mutex{})
	lock.(*sync.Mutex).Lock()
	defer lock.(*sync.Mutex).Unlock()

	// Hold the read lock while sending so Unsubscribe cannot close a channel
	// mid-send; sends are bounded by the timeout.
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := h.sessions[sessionID]

	logger := log.WithSession("sse", sessionID)
	sent := 0
	for c := range clients {
		msg := render(c.key)
		select {
		case c.C <- msg:
			sent++
		case <-time.After(h.timeout):
			logger.Debug().Str(log.FieldEvent, msg.Event).Msg("timeout sending to client")
		}
	}
	logger.Debug().Int("sent", sent).Int("clients", len(clients)).Msg("broadcast")
	return sent
}

// Close disconnects every client; later subscriptions are refused
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, clients := range h.sessions {
		for c := range clients {
			close(c.C)
			metrics.SSEClientDisconnected()
		}
		delete(h.sessions, id)
	}
}
