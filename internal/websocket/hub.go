// Package websocket is the real-time transport: it upgrades handshakes,
// runs the per-connection read/write pumps, and implements the delivery
// targets the relay routes to.
package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/castle-games/chat-server/internal/relay"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Clients connect from the desktop app and arbitrary game origins.
		return true
	},
}

// UserResolver authenticates a handshake token.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// Hub owns every live client and the named delivery targets
// (user-id:<id>, channel-id:<id>) the relay addresses. It implements
// relay.Transport; sends are best-effort and never block.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client            // connection id -> client
	targets map[string]map[string]*Client // target -> connection id -> client

	relay    *relay.Relay
	resolver UserResolver

	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

func NewHub(r *relay.Relay, resolver UserResolver, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[string]*Client),
		targets:    make(map[string]map[string]*Client),
		relay:      r,
		resolver:   resolver,
		unregister: make(chan *Client, 256),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Run processes disconnects until Stop. Funneling teardown through one
// loop keeps hub map cleanup and relay state transitions in order for
// each connection.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.unregister:
			h.removeClient(client)
			h.relay.Disconnect(client.id)

		case <-h.ctx.Done():
			h.logger.Info("WebSocket hub shutting down")
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.clients {
		client.close()
		client.conn.Close()
	}
}

// HandleConnection runs the connect lifecycle: authenticate first,
// outside any relay state, then register and activate. A token that
// resolves on neither identity deployment gets a connection error event
// and the socket is dropped without ever becoming active.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	channels := parseChannels(r.URL.Query().Get("channels"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := newClient(h, conn)

	userID, err := h.resolver.ResolveUser(r.Context(), token)
	if err != nil {
		h.logger.Info("Connection auth failed", "clientID", client.id, "error", err)
		client.writeDirect(relay.EventConnectionError, nil)
		conn.Close()
		return
	}
	client.userID = userID

	h.addClient(client)
	go client.writePump()

	if err := h.relay.Connect(client.id, userID, channels); err != nil {
		h.logger.Error("Failed to activate connection", "clientID", client.id, "userID", userID, "error", err)
		h.removeClient(client)
		client.close()
		conn.Close()
		return
	}

	go client.readPump()
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.id] = client
}

// removeClient drops the client from the client map and from every
// target it was joined to.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.clients, client.id)
	for target, members := range h.targets {
		delete(members, client.id)
		if len(members) == 0 {
			delete(h.targets, target)
		}
	}
}

// Join implements relay.Transport.
func (h *Hub) Join(connID, target string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if h.targets[target] == nil {
		h.targets[target] = make(map[string]*Client)
	}
	h.targets[target][connID] = client
}

// Leave implements relay.Transport.
func (h *Hub) Leave(connID, target string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.targets[target]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.targets, target)
	}
}

// Send implements relay.Transport.
func (h *Hub) Send(connID, event string, data []byte) {
	payload, err := marshalEnvelope(event, data)
	if err != nil {
		return
	}

	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()

	if ok {
		client.enqueue(payload)
	}
}

// SendToTarget implements relay.Transport. A target nobody is joined to
// is a no-op.
func (h *Hub) SendToTarget(target, event string, data []byte) {
	payload, err := marshalEnvelope(event, data)
	if err != nil {
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.targets[target]))
	for _, client := range h.targets[target] {
		members = append(members, client)
	}
	h.mu.RUnlock()

	for _, client := range members {
		client.enqueue(payload)
	}
}

// Broadcast implements relay.Transport.
func (h *Hub) Broadcast(event string, data []byte) {
	payload, err := marshalEnvelope(event, data)
	if err != nil {
		return
	}

	h.mu.RLock()
	all := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		all = append(all, client)
	}
	h.mu.RUnlock()

	for _, client := range all {
		client.enqueue(payload)
	}
}
