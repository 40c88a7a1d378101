// Package relay is the in-memory core of the chat server: it owns the
// connection registry, the channel membership index and the sticky
// update cache, computes presence, and routes backend messages to the
// right connections through the transport.
package relay

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Events pushed to clients over the transport.
const (
	EventMessage         = "message"
	EventUpdate          = "update"
	EventPresence        = "presence"
	EventConnectionError = "connection error"
)

// Transport is the capability the relay needs from the real-time layer:
// best-effort delivery to a connection, a named target, or everyone,
// plus target membership bookkeeping for connections. Sends never block
// on the peer.
type Transport interface {
	Join(connID, target string)
	Leave(connID, target string)
	Send(connID, event string, data []byte)
	SendToTarget(target, event string, data []byte)
	Broadcast(event string, data []byte)
}

// UserTarget names the per-user delivery target a connection is joined
// to at authentication. Direct messages and user updates go here.
func UserTarget(userID string) string {
	return "user-id:" + userID
}

// ChannelTarget names the delivery target for a channel.
func ChannelTarget(channel string) string {
	return "channel-id:" + channel
}

// Update is the {type, body} payload of an update event.
type Update struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

// Relay is the single owner of all mutable relay state. Every read and
// mutation of the registry, the membership index and the sticky cache is
// serialized under one lock, so a join and a disconnect for the same
// connection can never interleave and split the bidirectional index.
// Nothing under the lock does I/O: authentication happens before
// Connect is called, and transport sends are non-blocking.
type Relay struct {
	mu        sync.Mutex
	registry  *registry
	index     *index
	sticky    *stickyCache
	transport Transport
	logger    *slog.Logger
}

func New(logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		registry: newRegistry(),
		index:    newIndex(),
		sticky:   newStickyCache(),
		logger:   logger,
	}
}

// BindTransport attaches the real-time layer. Called once during wiring,
// before any connection arrives; the hub and the relay reference each
// other so one of the two links is set after construction.
func (r *Relay) BindTransport(t Transport) {
	r.transport = t
}

// Connect moves an authenticated connection into the active state:
// registers it, joins its user target and initial channels, broadcasts
// presence, and replays the sticky update cache to it.
func (r *Relay) Connect(connID, userID string, channels []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.registry.register(connID, userID); err != nil {
		return err
	}

	// Private per-user target, used for dms and user updates.
	r.transport.Join(connID, UserTarget(userID))

	for _, channel := range channels {
		r.joinLocked(connID, userID, channel)
	}

	r.logger.Info("Connection active", "connID", connID, "userID", userID, "channels", len(channels))

	r.broadcastPresenceLocked()

	for _, payload := range r.sticky.all() {
		r.transport.Send(connID, EventUpdate, payload)
	}
	return nil
}

// Disconnect tears the connection down: leaves every joined channel
// without notifying the transport (the session is already gone),
// unregisters, and broadcasts presence. Unknown connections are ignored,
// so a connection that failed authentication can be dropped through the
// same path.
func (r *Relay) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.registry.userFor(connID)
	if !ok {
		return
	}

	for _, channel := range r.index.channelsFor(connID) {
		r.leaveLocked(connID, channel, false)
	}
	r.registry.unregister(connID)

	r.logger.Info("Connection disconnected", "connID", connID, "userID", userID)

	r.broadcastPresenceLocked()
}

// JoinChannels joins the connection to each channel and broadcasts
// presence once.
func (r *Relay) JoinChannels(connID string, channels []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.registry.userFor(connID)
	if !ok {
		return ErrUnknownConnection
	}

	for _, channel := range channels {
		r.joinLocked(connID, userID, channel)
	}
	r.broadcastPresenceLocked()
	return nil
}

// LeaveChannels removes the connection from each channel, notifying the
// transport since the session is still live, and broadcasts presence
// once.
func (r *Relay) LeaveChannels(connID string, channels []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.registry.userFor(connID); !ok {
		return ErrUnknownConnection
	}

	for _, channel := range channels {
		r.leaveLocked(connID, channel, true)
	}
	r.broadcastPresenceLocked()
	return nil
}

func (r *Relay) joinLocked(connID, userID, channel string) {
	r.transport.Join(connID, ChannelTarget(channel))
	r.index.join(connID, userID, channel)
}

func (r *Relay) leaveLocked(connID, channel string, notifyTransport bool) {
	if notifyTransport {
		r.transport.Leave(connID, ChannelTarget(channel))
	}
	r.index.leave(connID, channel)
}

// RouteMessage fans a message out. A channel id of the form
// "dm-<id>,<id>,..." addresses each listed user's target; anything else
// addresses the channel target. Pure fan-out, no state is touched.
func (r *Relay) RouteMessage(channelID string, message json.RawMessage) {
	if strings.HasPrefix(channelID, "dm-") {
		for _, userID := range strings.Split(strings.Split(channelID, "-")[1], ",") {
			r.transport.SendToTarget(UserTarget(userID), EventMessage, message)
		}
		return
	}
	r.transport.SendToTarget(ChannelTarget(channelID), EventMessage, message)
}

// SendChannelMessage always addresses the channel target, even for dm-
// channel ids. Kept for the deprecated send-channel-message endpoint.
func (r *Relay) SendChannelMessage(channelID string, message json.RawMessage) {
	r.transport.SendToTarget(ChannelTarget(channelID), EventMessage, message)
}

// SendUserMessage delivers to both ends of the deprecated user-message
// endpoint. An empty from side addresses a target nobody is joined to,
// which is a no-op.
func (r *Relay) SendUserMessage(fromUserID, toUserID string, message json.RawMessage) {
	r.transport.SendToTarget(UserTarget(fromUserID), EventMessage, message)
	r.transport.SendToTarget(UserTarget(toUserID), EventMessage, message)
}

// SendUserUpdate delivers an {type, body} update event to every
// connection of one user.
func (r *Relay) SendUserUpdate(userID, updateType string, body json.RawMessage) error {
	payload, err := json.Marshal(Update{Type: updateType, Body: body})
	if err != nil {
		return err
	}
	r.transport.SendToTarget(UserTarget(userID), EventUpdate, payload)
	return nil
}

// SendGlobalUpdate broadcasts an update event to every connection and,
// when sticky, records it for replay to future connections. Two
// producers using the same type overwrite each other; the cache holds
// the latest known global state per type.
func (r *Relay) SendGlobalUpdate(updateType string, body json.RawMessage, isSticky bool) error {
	payload, err := json.Marshal(Update{Type: updateType, Body: body})
	if err != nil {
		return err
	}
	r.transport.Broadcast(EventUpdate, payload)

	if isSticky {
		r.mu.Lock()
		r.sticky.record(updateType, payload, true)
		r.mu.Unlock()
	}
	return nil
}

// Presence reports whether the user is online and the deduplicated union
// of channels joined across all of that user's connections.
func (r *Relay) Presence(userID string) (online bool, channels []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{})
	channels = make([]string, 0)
	for _, connID := range r.registry.connectionsFor(userID) {
		online = true
		for _, channel := range r.index.channelsFor(connID) {
			if _, ok := seen[channel]; !ok {
				seen[channel] = struct{}{}
				channels = append(channels, channel)
			}
		}
	}
	sort.Strings(channels)
	return online, channels
}
