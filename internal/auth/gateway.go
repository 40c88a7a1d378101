// Package auth resolves handshake tokens to user ids by asking the API
// backend's identity endpoint.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/castle-games/chat-server/internal/models"
)

// ErrAuthFailed means neither identity deployment recognized the token.
var ErrAuthFailed = errors.New("token did not resolve to a user")

// Gateway queries the primary identity deployment and, while the backend
// migration is in flight, falls back to the secondary one. The two
// lookups are strictly sequential; any transport error, non-200 status
// or missing user_id field counts as a miss on that deployment, never as
// a hard failure.
type Gateway struct {
	hosts  []string
	client *http.Client
	logger *slog.Logger
}

func NewGateway(primaryHost, secondaryHost string, timeout time.Duration, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		hosts:  []string{primaryHost, secondaryHost},
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// ResolveUser returns the user id for a token, in string form, or
// ErrAuthFailed. Tokens are opaque to the relay; no caching, no retries
// beyond the two deployments.
func (g *Gateway) ResolveUser(ctx context.Context, token string) (string, error) {
	for _, host := range g.hosts {
		userID, err := g.lookup(ctx, host, token)
		if err != nil {
			g.logger.Debug("Identity lookup missed", "host", host, "error", err)
			continue
		}
		return userID, nil
	}
	return "", ErrAuthFailed
}

func (g *Gateway) lookup(ctx context.Context, host, token string) (string, error) {
	lookupURL := fmt.Sprintf("%s/api/chat/get-user?token=%s", host, url.QueryEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity endpoint returned %d", resp.StatusCode)
	}

	var body struct {
		UserID models.UserID `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.UserID == "" {
		return "", errors.New("identity response has no user_id")
	}
	return body.UserID.String(), nil
}
