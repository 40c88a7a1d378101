package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Client is one live websocket session. Its user id is assigned once at
// authentication and never changes.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string

	ctx    context.Context
	cancel context.CancelFunc
	closed int32
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:     uuid.New().String(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) isClosed() bool {
	return atomic.LoadInt32(&c.closed) == 1
}

// close marks the client closed and wakes both pumps.
func (c *Client) close() {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.cancel()
	}
}

// enqueue hands a framed event to the write pump. A full buffer means
// the peer stopped draining; the client is closed rather than letting it
// stall the relay.
func (c *Client) enqueue(payload []byte) {
	if c.isClosed() {
		return
	}
	select {
	case c.send <- payload:
	case <-c.ctx.Done():
	default:
		slog.Warn("Send buffer full, closing client", "clientID", c.id, "userID", c.userID)
		c.close()
	}
}

// writeDirect writes one event synchronously. Only used before the write
// pump starts, on the auth-failure path.
func (c *Client) writeDirect(event string, data json.RawMessage) {
	payload, err := marshalEnvelope(event, data)
	if err != nil {
		return
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		slog.Debug("Error writing event", "clientID", c.id, "error", err)
	}
}

func (c *Client) readPump() {
	defer func() {
		c.close()
		c.hub.unregister <- c
		if err := c.conn.Close(); err != nil {
			slog.Debug("Error closing connection", "clientID", c.id, "userID", c.userID, "error", err)
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		if c.isClosed() {
			return websocket.ErrCloseSent
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "clientID", c.id, "userID", c.userID, "error", err)
			} else {
				slog.Debug("WebSocket connection closed", "clientID", c.id, "userID", c.userID, "error", err)
			}
			return
		}

		c.handleEvent(messageBytes)
	}
}

// handleEvent dispatches one client-originated event. Malformed events
// are logged and dropped; they never terminate the connection.
func (c *Client) handleEvent(messageBytes []byte) {
	var env Envelope
	if err := json.Unmarshal(messageBytes, &env); err != nil {
		slog.Error("Failed to unmarshal event", "clientID", c.id, "userID", c.userID, "error", err)
		return
	}

	switch env.Event {
	case eventJoinChannels:
		var payload ChannelsPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			slog.Error("Error joining channels", "clientID", c.id, "userID", c.userID, "error", err)
			return
		}
		if err := c.hub.relay.JoinChannels(c.id, payload.Channels); err != nil {
			slog.Error("Error joining channels", "clientID", c.id, "userID", c.userID, "error", err)
		}

	case eventLeaveChannels:
		var payload ChannelsPayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			slog.Error("Error leaving channels", "clientID", c.id, "userID", c.userID, "error", err)
			return
		}
		if err := c.hub.relay.LeaveChannels(c.id, payload.Channels); err != nil {
			slog.Error("Error leaving channels", "clientID", c.id, "userID", c.userID, "error", err)
		}

	default:
		slog.Debug("Unknown event", "clientID", c.id, "event", env.Event)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				slog.Debug("Error writing message", "clientID", c.id, "userID", c.userID, "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				slog.Debug("Error sending ping", "clientID", c.id, "userID", c.userID, "error", err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}
