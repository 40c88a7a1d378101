package relay

// index is the channel membership relation, kept in both directions so
// lookups are O(1) either way. The two maps are only ever mutated
// together, inside this file, under the Relay's lock: a (connection,
// channel) pair is in byChannel exactly when it is in byConn.
type index struct {
	byChannel map[string]map[string]string   // channel -> connection id -> user id
	byConn    map[string]map[string]struct{} // connection id -> set of channels
}

func newIndex() *index {
	return &index{
		byChannel: make(map[string]map[string]string),
		byConn:    make(map[string]map[string]struct{}),
	}
}

// join records the membership. Joining a channel the connection is
// already in is a no-op.
func (ix *index) join(connID, userID, channel string) {
	if ix.byChannel[channel] == nil {
		ix.byChannel[channel] = make(map[string]string)
	}
	if ix.byConn[connID] == nil {
		ix.byConn[connID] = make(map[string]struct{})
	}
	ix.byChannel[channel][connID] = userID
	ix.byConn[connID][channel] = struct{}{}
}

// leave removes the membership. Leaving a channel the connection never
// joined is a no-op.
func (ix *index) leave(connID, channel string) {
	if conns, ok := ix.byChannel[channel]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(ix.byChannel, channel)
		}
	}
	if channels, ok := ix.byConn[connID]; ok {
		delete(channels, channel)
		if len(channels) == 0 {
			delete(ix.byConn, connID)
		}
	}
}

func (ix *index) channelsFor(connID string) []string {
	channels := make([]string, 0, len(ix.byConn[connID]))
	for channel := range ix.byConn[connID] {
		channels = append(channels, channel)
	}
	return channels
}

// connectionsFor returns the connection -> user mapping for a channel.
// The returned map is the live index entry; callers must not hold it
// past the Relay's lock.
func (ix *index) connectionsFor(channel string) map[string]string {
	return ix.byChannel[channel]
}
