package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityServer(t *testing.T, hits *atomic.Int32, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/api/chat/get-user", r.URL.Path)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func respondUser(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestResolveUserPrimaryWins(t *testing.T) {
	var primaryHits, secondaryHits atomic.Int32
	primary := identityServer(t, &primaryHits, respondUser(`{"user_id": 42}`))
	secondary := identityServer(t, &secondaryHits, respondUser(`{"user_id": 99}`))

	g := NewGateway(primary.URL, secondary.URL, time.Second, nil)
	userID, err := g.ResolveUser(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "42", userID)
	assert.Equal(t, int32(1), primaryHits.Load())
	assert.Equal(t, int32(0), secondaryHits.Load(), "secondary must not be consulted when primary resolves")
}

func TestResolveUserStringID(t *testing.T) {
	var hits atomic.Int32
	primary := identityServer(t, &hits, respondUser(`{"user_id": "42"}`))

	g := NewGateway(primary.URL, "http://127.0.0.1:0", time.Second, nil)
	userID, err := g.ResolveUser(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestResolveUserFallsBackOnNonSuccess(t *testing.T) {
	var primaryHits, secondaryHits atomic.Int32
	primary := identityServer(t, &primaryHits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	secondary := identityServer(t, &secondaryHits, respondUser(`{"user_id": 7}`))

	g := NewGateway(primary.URL, secondary.URL, time.Second, nil)
	userID, err := g.ResolveUser(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "7", userID)
	assert.Equal(t, int32(1), primaryHits.Load())
	assert.Equal(t, int32(1), secondaryHits.Load())
}

func TestResolveUserFallsBackOnMissingField(t *testing.T) {
	var primaryHits, secondaryHits atomic.Int32
	primary := identityServer(t, &primaryHits, respondUser(`{"ok": true}`))
	secondary := identityServer(t, &secondaryHits, respondUser(`{"user_id": 7}`))

	g := NewGateway(primary.URL, secondary.URL, time.Second, nil)
	userID, err := g.ResolveUser(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "7", userID)
}

func TestResolveUserFallsBackOnConnectionError(t *testing.T) {
	var secondaryHits atomic.Int32
	secondary := identityServer(t, &secondaryHits, respondUser(`{"user_id": 7}`))

	// Primary points at a closed port; the transport error is swallowed.
	g := NewGateway("http://127.0.0.1:1", secondary.URL, time.Second, nil)
	userID, err := g.ResolveUser(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, "7", userID)
}

func TestResolveUserBothFail(t *testing.T) {
	var primaryHits, secondaryHits atomic.Int32
	primary := identityServer(t, &primaryHits, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	secondary := identityServer(t, &secondaryHits, respondUser(`{}`))

	g := NewGateway(primary.URL, secondary.URL, time.Second, nil)
	_, err := g.ResolveUser(context.Background(), "tok")

	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, int32(1), primaryHits.Load())
	assert.Equal(t, int32(1), secondaryHits.Load())
}

func TestResolveUserEscapesToken(t *testing.T) {
	var hits atomic.Int32
	primary := identityServer(t, &hits, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a b&c", r.URL.Query().Get("token"))
		respondUser(`{"user_id": 1}`)(w, r)
	})

	g := NewGateway(primary.URL, "http://127.0.0.1:0", time.Second, nil)
	_, err := g.ResolveUser(context.Background(), "a b&c")
	require.NoError(t, err)
}
