package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the relay process.
type Config struct {
	Server   ServerConfig
	Identity IdentityConfig
	Relay    RelayConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// IdentityConfig points at the two identity deployments. Both are
// consulted in order during the backend migration window.
type IdentityConfig struct {
	PrimaryHost   string
	SecondaryHost string
	LookupTimeout time.Duration
}

type RelayConfig struct {
	SecretKey string
}

var (
	ConfigInstance *Config
	once           sync.Once
)

// LoadConfig reads configuration from environment variables with defaults.
func LoadConfig() (*Config, error) {
	once.Do(func() {
		viper.SetDefault("CHAT_HOST", "")
		viper.SetDefault("CHAT_PORT", "3003")
		viper.SetDefault("CHAT_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("CHAT_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("CHAT_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("CHAT_SECRET_KEY", "secret")
		viper.SetDefault("API_HOST", "https://api.castle.games")
		viper.SetDefault("API_HOST_2", "https://castle-app-server.herokuapp.com")
		viper.SetDefault("API_LOOKUP_TIMEOUT", 10*time.Second)
		viper.AutomaticEnv()

		ConfigInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("CHAT_HOST"),
				Port:         viper.GetString("CHAT_PORT"),
				ReadTimeout:  viper.GetDuration("CHAT_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("CHAT_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("CHAT_IDLE_TIMEOUT"),
			},
			Identity: IdentityConfig{
				PrimaryHost:   viper.GetString("API_HOST"),
				SecondaryHost: viper.GetString("API_HOST_2"),
				LookupTimeout: viper.GetDuration("API_LOOKUP_TIMEOUT"),
			},
			Relay: RelayConfig{
				SecretKey: viper.GetString("CHAT_SECRET_KEY"),
			},
		}
	})

	return ConfigInstance, nil
}
