package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Second/30, cfg.Game.TickInterval())
	assert.Equal(t, 8, cfg.Game.MaxTargets)
	assert.Equal(t, 10, cfg.Game.LeaderboardSize)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bullseye.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 4000
logLevel: debug
database:
  url: memory://
game:
  maxTargets: 12
  respawnDelay: 500ms
network:
  messagesPerSecond: 10
`), 0o644))

	cfg, err := Load([]string{"-config", path, "-log-level", "trace"}, env(map[string]string{
		"PORT":                   "5000",
		"BULLSEYE_AUTH_PROVIDER": "local",
	}))
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port, "environment overrides the file")
	assert.Equal(t, "trace", cfg.LogLevel, "flags override the file")
	assert.Equal(t, "memory://", cfg.Database.URL)
	assert.Equal(t, "local", cfg.Auth.Provider)
	assert.Equal(t, 12, cfg.Game.MaxTargets)
	assert.Equal(t, 500*time.Millisecond, cfg.Game.RespawnDelay)
	assert.Equal(t, 10.0, cfg.Network.MessagesPerSecond)
	assert.Equal(t, Default().Game.Width, cfg.Game.Width, "unset values keep their defaults")
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	cfg, err := Load([]string{"-port", "7000", "-db", "memory://"}, env(map[string]string{
		"PORT":                     "5000",
		"BULLSEYE_DATABASE_URL":    "sqlite://other.db",
		"BULLSEYE_ALLOWED_ORIGINS": "http://a.example,http://b.example",
	}))
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "memory://", cfg.Database.URL)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	assert.Error(t, err)

	_, err = Load(nil, env(map[string]string{"PORT": "http"}))
	assert.Error(t, err)

	_, err = Load([]string{"-unknown"}, nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "negative min radius", mutate: func(c *Config) { c.Game.MinRadius = -1 }},
		{name: "inverted radius range", mutate: func(c *Config) { c.Game.MaxRadius = c.Game.MinRadius - 1 }},
		{name: "arena too small", mutate: func(c *Config) { c.Game.Width = c.Game.MaxRadius }},
		{name: "zero tick rate", mutate: func(c *Config) { c.Game.TickRate = 0 }},
		{name: "zero max targets", mutate: func(c *Config) { c.Game.MaxTargets = 0 }},
		{name: "zero leaderboard", mutate: func(c *Config) { c.Game.LeaderboardSize = 0 }},
		{name: "zero spawn interval", mutate: func(c *Config) { c.Game.SpawnInterval = 0 }},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "loud" }},
		{name: "unknown auth provider", mutate: func(c *Config) { c.Auth.Provider = "ldap" }},
		{name: "firebase without project", mutate: func(c *Config) { c.Auth.Provider = AuthProviderFirebase }},
		{name: "half tls", mutate: func(c *Config) { c.TLS.CertFile = "cert.pem" }},
		{name: "missing database", mutate: func(c *Config) { c.Database.URL = "" }},
		{name: "zero outbox", mutate: func(c *Config) { c.Network.OutboxSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
