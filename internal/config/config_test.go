package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "3003", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "secret", cfg.Relay.SecretKey)
	assert.Equal(t, "https://api.castle.games", cfg.Identity.PrimaryHost)
	assert.Equal(t, "https://castle-app-server.herokuapp.com", cfg.Identity.SecondaryHost)
	assert.Equal(t, 10*time.Second, cfg.Identity.LookupTimeout)
}

func TestLoadConfigReturnsSameInstance(t *testing.T) {
	first, err := LoadConfig()
	require.NoError(t, err)
	second, err := LoadConfig()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, ConfigInstance, first)
}
