package websocket

import "encoding/json"

// Envelope frames every event on the wire, in both directions:
// {"event": <name>, "data": <payload>}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client-originated events accepted after connect.
const (
	eventJoinChannels  = "join-channels"
	eventLeaveChannels = "leave-channels"
)

// ChannelsPayload is the data of join-channels and leave-channels.
type ChannelsPayload struct {
	Channels []string `json:"channels"`
}

func marshalEnvelope(event string, data []byte) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: data})
}

// parseChannels decodes the handshake channels query parameter.
// Malformed or absent JSON means no initial channels, not an error.
func parseChannels(raw string) []string {
	var channels []string
	if err := json.Unmarshal([]byte(raw), &channels); err != nil {
		return nil
	}
	return channels
}
