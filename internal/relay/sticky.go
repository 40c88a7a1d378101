package relay

import "encoding/json"

// stickyCache remembers the latest payload of every update type flagged
// sticky, for replay to newly connected clients. Last write wins per
// type; entries live for the process lifetime.
type stickyCache struct {
	updates map[string]json.RawMessage
}

func newStickyCache() *stickyCache {
	return &stickyCache{updates: make(map[string]json.RawMessage)}
}

func (s *stickyCache) record(updateType string, payload json.RawMessage, isSticky bool) {
	if !isSticky {
		return
	}
	s.updates[updateType] = payload
}

// all returns every cached payload, in no particular order.
func (s *stickyCache) all() []json.RawMessage {
	payloads := make([]json.RawMessage, 0, len(s.updates))
	for _, p := range s.updates {
		payloads = append(payloads, p)
	}
	return payloads
}
