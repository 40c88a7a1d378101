package relay

// registry tracks every active connection and the user id it
// authenticated as. It is not safe for concurrent use on its own; all
// access goes through the Relay's lock.
type registry struct {
	conns map[string]string // connection id -> user id
}

func newRegistry() *registry {
	return &registry{conns: make(map[string]string)}
}

func (r *registry) register(connID, userID string) error {
	if _, ok := r.conns[connID]; ok {
		return ErrDuplicateConnection
	}
	r.conns[connID] = userID
	return nil
}

// unregister removes the connection. Removing an unknown connection is a
// no-op.
func (r *registry) unregister(connID string) {
	delete(r.conns, connID)
}

func (r *registry) userFor(connID string) (string, bool) {
	userID, ok := r.conns[connID]
	return userID, ok
}

// connectionsFor returns the ids of every connection the user holds.
// Linear in the number of active connections.
func (r *registry) connectionsFor(userID string) []string {
	var ids []string
	for connID, u := range r.conns {
		if u == userID {
			ids = append(ids, connID)
		}
	}
	return ids
}
