// Package websocket streams change feed events to websocket clients.
package websocket

import (
	"context"
	gosync "sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/confkit/internal/metrics"
	"github.com/agentstation/confkit/internal/server/events"
)

var _ events.Subscriber = (*Hub)(nil)

// Hub fans events out to the connected clients. A client that cannot keep
// up is disconnected; it may reconnect and resume from its last seq.
type Hub struct {
	logger *zerolog.Logger

	mu      gosync.Mutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub returns an empty hub.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{logger: logger, clients: make(map[*Client]struct{})}
}

// Register adds c. When backlog is not nil, the events it returns are queued
// first; it runs under the hub lock so no live event is lost or repeated.
// Clients registered after shutdown are closed at once.
func (h *Hub) Register(c *Client, backlog func() []events.Event) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		c.close()
		return
	}
	if backlog != nil {
		for _, e := range backlog() {
			if c.wants(e) && !c.enqueue(e) {
				h.mu.Unlock()
				h.logger.Warn().Str("client_id", c.id).Msg("Feed backlog too large, rejecting client")
				c.close()
				return
			}
		}
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WebSocketClients.Set(float64(n))
	h.logger.Info().Str("client_id", c.id).Int("total_clients", n).Msg("Feed client connected")
}

// Unregister removes c and closes its queue.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	if !ok {
		return
	}

	c.close()
	metrics.WebSocketClients.Set(float64(n))
	h.logger.Info().Str("client_id", c.id).Int("total_clients", n).Msg("Feed client disconnected")
}

// Send implements events.Subscriber. It never blocks.
func (h *Hub) Send(event events.Event) error {
	h.mu.Lock()
	var slow []*Client
	for c := range h.clients {
		if !c.wants(event) {
			continue
		}
		if !c.enqueue(event) {
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn().Str("client_id", c.id).Uint64("seq", event.Seq).Msg("Feed client too slow, disconnecting")
		h.Unregister(c)
	}
	return nil
}

// Close implements events.Subscriber. The broker calls it on shutdown.
func (h *Hub) Close() error {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*Client]struct{})
	h.closed = true
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
	metrics.WebSocketClients.Set(0)
	return nil
}

// Run closes the hub when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	_ = h.Close()
	h.logger.Info().Msg("Feed hub stopped")
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Client is one websocket connection of the feed.
type Client struct {
	id        string
	hub       *Hub
	conn      *websocket.Conn
	resources map[string]bool // empty means every resource
	lastSeq   uint64

	send      chan events.Event
	closeOnce gosync.Once
}

const sendBuffer = 256

// NewClient returns a client receiving events about resources, or about
// everything when resources is empty.
func NewClient(id string, hub *Hub, conn *websocket.Conn, resources ...string) *Client {
	c := &Client{
		id:        id,
		hub:       hub,
		conn:      conn,
		resources: make(map[string]bool, len(resources)),
		send:      make(chan events.Event, sendBuffer),
	}
	for _, r := range resources {
		c.resources[r] = true
	}
	return c
}

func (c *Client) wants(e events.Event) bool {
	r := e.Resource()
	return len(c.resources) == 0 || r == "" || c.resources[r]
}

// enqueue is called with the hub lock held.
func (c *Client) enqueue(e events.Event) bool {
	if e.Seq != 0 && e.Seq <= c.lastSeq {
		return true
	}
	select {
	case c.send <- e:
		if e.Seq != 0 {
			c.lastSeq = e.Seq
		}
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
)

// ReadPump drains the connection so pongs and close frames are handled.
// Client messages are ignored. The client is unregistered on return.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn().Err(err).Str("client_id", c.id).Msg("Feed read failed")
			}
			return
		}
	}
}

// WritePump writes queued events as JSON and pings the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
