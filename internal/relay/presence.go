package relay

import (
	"encoding/json"
	"log/slog"
	"sort"
)

// PresenceEvent is the payload pushed to every connection after any
// change that can alter presence. The per-channel counts are redundant
// with the user id lists and kept only for older clients.
type PresenceEvent struct {
	Type                 string              `json:"type"`
	UserIDs              []string            `json:"user_ids"`
	ChannelOnlineCounts  map[string]int      `json:"channel_online_counts"`
	ChannelOnlineUserIDs map[string][]string `json:"channel_online_user_ids"`
}

const presenceFullUpdate = "full-update"

// broadcastPresenceLocked recomputes presence from the registry and the
// membership index and emits one presence event per connection. Always a
// full recomputation; connection counts are small enough that
// correctness beats diffing. Caller must hold r.mu.
func (r *Relay) broadcastPresenceLocked() {
	userIDs, connIDs := r.onlineUsersLocked()

	// Channel member lists are shared across connections in the same
	// channel, so compute each one at most once per pass.
	channelCache := make(map[string][]string)

	for _, connID := range connIDs {
		channels := r.index.channelsFor(connID)
		counts := make(map[string]int, len(channels))
		members := make(map[string][]string, len(channels))

		for _, channel := range channels {
			ids, ok := channelCache[channel]
			if !ok {
				ids = r.onlineUserIDsForChannelLocked(channel)
				channelCache[channel] = ids
			}
			counts[channel] = len(ids)
			members[channel] = ids
		}

		payload, err := json.Marshal(PresenceEvent{
			Type:                 presenceFullUpdate,
			UserIDs:              userIDs,
			ChannelOnlineCounts:  counts,
			ChannelOnlineUserIDs: members,
		})
		if err != nil {
			slog.Error("Failed to marshal presence event", "connID", connID, "error", err)
			continue
		}
		r.transport.Send(connID, EventPresence, payload)
	}
}

// onlineUsersLocked returns the distinct online user ids and every live
// connection id. Caller must hold r.mu.
func (r *Relay) onlineUsersLocked() (userIDs, connIDs []string) {
	seen := make(map[string]struct{})
	for connID, userID := range r.registry.conns {
		connIDs = append(connIDs, connID)
		if _, ok := seen[userID]; !ok {
			seen[userID] = struct{}{}
			userIDs = append(userIDs, userID)
		}
	}
	sort.Strings(userIDs)
	return userIDs, connIDs
}

// onlineUserIDsForChannelLocked returns the distinct user ids with at
// least one connection in the channel. Caller must hold r.mu.
func (r *Relay) onlineUserIDsForChannelLocked(channel string) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, userID := range r.index.connectionsFor(channel) {
		if _, ok := seen[userID]; !ok {
			seen[userID] = struct{}{}
			ids = append(ids, userID)
		}
	}
	sort.Strings(ids)
	return ids
}
