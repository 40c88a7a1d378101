package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castle-games/chat-server/internal/relay"
)

// stubResolver authenticates tokens from a fixed map.
type stubResolver struct {
	users map[string]string
}

func (s *stubResolver) ResolveUser(ctx context.Context, token string) (string, error) {
	if userID, ok := s.users[token]; ok {
		return userID, nil
	}
	return "", errors.New("no user for token")
}

func newTestHub(t *testing.T, users map[string]string) (*Hub, *relay.Relay, *httptest.Server) {
	t.Helper()

	r := relay.New(nil)
	hub := NewHub(r, &stubResolver{users: users}, nil)
	r.BindTransport(hub)
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleConnection))
	t.Cleanup(func() {
		srv.Close()
		hub.Stop()
	})
	return hub, r, srv
}

func dial(t *testing.T, srv *httptest.Server, token string, channels []string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	q := url.Values{}
	q.Set("token", token)
	if channels != nil {
		raw, err := json.Marshal(channels)
		require.NoError(t, err)
		q.Set("channels", string(raw))
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/?"+q.Encode(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	return env
}

func TestConnectReceivesPresenceFirst(t *testing.T) {
	_, _, srv := newTestHub(t, map[string]string{"good": "7"})

	conn := dial(t, srv, "good", []string{"general"})

	env := readEnvelope(t, conn)
	assert.Equal(t, relay.EventPresence, env.Event)

	var presence relay.PresenceEvent
	require.NoError(t, json.Unmarshal(env.Data, &presence))
	assert.Equal(t, []string{"7"}, presence.UserIDs)
	assert.Equal(t, map[string]int{"general": 1}, presence.ChannelOnlineCounts)
	assert.Equal(t, map[string][]string{"general": {"7"}}, presence.ChannelOnlineUserIDs)
}

func TestConnectAuthFailure(t *testing.T) {
	_, _, srv := newTestHub(t, map[string]string{"good": "7"})

	conn := dial(t, srv, "bad", nil)

	env := readEnvelope(t, conn)
	assert.Equal(t, relay.EventConnectionError, env.Event)

	// The socket is dropped right after the error event.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestStickyReplayAfterPresence(t *testing.T) {
	_, r, srv := newTestHub(t, map[string]string{"good": "7"})

	require.NoError(t, r.SendGlobalUpdate("banner", json.RawMessage(`"hello"`), true))

	conn := dial(t, srv, "good", nil)

	env := readEnvelope(t, conn)
	assert.Equal(t, relay.EventPresence, env.Event)

	env = readEnvelope(t, conn)
	assert.Equal(t, relay.EventUpdate, env.Event)
	assert.JSONEq(t, `{"type":"banner","body":"hello"}`, string(env.Data))
}

func TestJoinAndLeaveChannels(t *testing.T) {
	_, r, srv := newTestHub(t, map[string]string{"good": "7"})

	conn := dial(t, srv, "good", nil)

	env := readEnvelope(t, conn)
	require.Equal(t, relay.EventPresence, env.Event)

	join, err := json.Marshal(Envelope{
		Event: eventJoinChannels,
		Data:  json.RawMessage(`{"channels":["general"]}`),
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, join))

	env = readEnvelope(t, conn)
	require.Equal(t, relay.EventPresence, env.Event)
	var presence relay.PresenceEvent
	require.NoError(t, json.Unmarshal(env.Data, &presence))
	assert.Equal(t, map[string]int{"general": 1}, presence.ChannelOnlineCounts)

	online, channels := r.Presence("7")
	assert.True(t, online)
	assert.Equal(t, []string{"general"}, channels)

	leave, err := json.Marshal(Envelope{
		Event: eventLeaveChannels,
		Data:  json.RawMessage(`{"channels":["general"]}`),
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, leave))

	env = readEnvelope(t, conn)
	require.Equal(t, relay.EventPresence, env.Event)
	presence = relay.PresenceEvent{}
	require.NoError(t, json.Unmarshal(env.Data, &presence))
	assert.Empty(t, presence.ChannelOnlineCounts)

	_, channels = r.Presence("7")
	assert.Empty(t, channels)
}

func TestMalformedClientEventIgnored(t *testing.T) {
	_, r, srv := newTestHub(t, map[string]string{"good": "7"})

	conn := dial(t, srv, "good", nil)
	readEnvelope(t, conn) // presence

	// A join-channels event with a garbage payload changes nothing and
	// never terminates the connection.
	bad, err := json.Marshal(Envelope{
		Event: eventJoinChannels,
		Data:  json.RawMessage(`"not an object"`),
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, bad))

	join, err := json.Marshal(Envelope{
		Event: eventJoinChannels,
		Data:  json.RawMessage(`{"channels":["general"]}`),
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, join))

	env := readEnvelope(t, conn)
	require.Equal(t, relay.EventPresence, env.Event)

	online, channels := r.Presence("7")
	assert.True(t, online)
	assert.Equal(t, []string{"general"}, channels)
}

func TestChannelMessageDelivery(t *testing.T) {
	_, r, srv := newTestHub(t, map[string]string{"good": "7", "other": "9"})

	inChannel := dial(t, srv, "good", []string{"general"})
	readEnvelope(t, inChannel) // presence

	outside := dial(t, srv, "other", nil)
	readEnvelope(t, outside)   // own presence
	readEnvelope(t, inChannel) // presence rebroadcast for the second connect

	r.RouteMessage("general", json.RawMessage(`{"channelId":"general","text":"hi"}`))

	env := readEnvelope(t, inChannel)
	assert.Equal(t, relay.EventMessage, env.Event)
	assert.JSONEq(t, `{"channelId":"general","text":"hi"}`, string(env.Data))

	// The connection outside the channel sees nothing.
	require.NoError(t, outside.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := outside.ReadMessage()
	assert.Error(t, err)
}

func TestDirectMessageDelivery(t *testing.T) {
	_, r, srv := newTestHub(t, map[string]string{"good": "7"})

	conn := dial(t, srv, "good", nil)
	readEnvelope(t, conn) // presence

	r.RouteMessage("dm-7,9", json.RawMessage(`{"channelId":"dm-7,9","text":"psst"}`))

	env := readEnvelope(t, conn)
	assert.Equal(t, relay.EventMessage, env.Event)
	assert.JSONEq(t, `{"channelId":"dm-7,9","text":"psst"}`, string(env.Data))
}

func TestDisconnectUpdatesPresence(t *testing.T) {
	_, r, srv := newTestHub(t, map[string]string{"good": "7", "other": "9"})

	watcher := dial(t, srv, "other", nil)
	readEnvelope(t, watcher) // own presence

	conn := dial(t, srv, "good", nil)
	readEnvelope(t, conn) // presence

	env := readEnvelope(t, watcher)
	require.Equal(t, relay.EventPresence, env.Event)
	var presence relay.PresenceEvent
	require.NoError(t, json.Unmarshal(env.Data, &presence))
	require.Equal(t, []string{"7", "9"}, presence.UserIDs)

	conn.Close()

	env = readEnvelope(t, watcher)
	require.Equal(t, relay.EventPresence, env.Event)
	presence = relay.PresenceEvent{}
	require.NoError(t, json.Unmarshal(env.Data, &presence))
	assert.Equal(t, []string{"9"}, presence.UserIDs)

	// The relay forgets the user once the teardown has drained.
	require.Eventually(t, func() bool {
		online, _ := r.Presence("7")
		return !online
	}, 2*time.Second, 10*time.Millisecond)
}
