package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RECEIPTSPLIT_CONFIG_PATH",
		"RECEIPTSPLIT_SERVER_HOST",
		"RECEIPTSPLIT_SERVER_PORT",
		"RECEIPTSPLIT_STATIC_DIR",
		"RECEIPTSPLIT_ALLOWED_ORIGIN",
		"TOGETHER_API_KEY",
		"RECEIPTSPLIT_GATEWAY_BASE_URL",
		"RECEIPTSPLIT_GATEWAY_MODEL",
		"RECEIPTSPLIT_GATEWAY_TIMEOUT",
		"RECEIPTSPLIT_DB_PATH",
		"LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 100, cfg.Gateway.MinImageLength)
	assert.Empty(t, cfg.Gateway.APIKey)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  static_dir: /srv/web
gateway:
  timeout: 10s
  model: file-model
log:
  level: debug
`), 0o644))

	t.Setenv("RECEIPTSPLIT_CONFIG_PATH", path)
	t.Setenv("RECEIPTSPLIT_GATEWAY_MODEL", "env-model")
	t.Setenv("TOGETHER_API_KEY", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/web", cfg.Server.StaticDir)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "env-model", cfg.Gateway.Model)
	assert.Equal(t, "debug", cfg.Log.Level)

	gw := cfg.GatewayConfig()
	assert.Equal(t, "secret", gw.APIKey)
	assert.Equal(t, 10*time.Second, gw.Timeout)
	assert.Equal(t, 1000, gw.MaxTokens)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "RECEIPTSPLIT_SERVER_PORT", value: "abc"},
		{key: "RECEIPTSPLIT_GATEWAY_TIMEOUT", value: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("RECEIPTSPLIT_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.ErrorContains(t, err, "read config file")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{
			name:        "port out of range",
			mutate:      func(c *Config) { c.Server.Port = 70000 },
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "bad base url scheme",
			mutate:      func(c *Config) { c.Gateway.BaseURL = "ftp://example.com" },
			errorString: "invalid gateway base URL scheme 'ftp'",
		},
		{
			name:        "zero timeout",
			mutate:      func(c *Config) { c.Gateway.Timeout = 0 },
			errorString: "invalid gateway timeout 0s: must be positive",
		},
		{
			name:        "negative min image length",
			mutate:      func(c *Config) { c.Gateway.MinImageLength = -1 },
			errorString: "invalid minimum image length -1",
		},
		{
			name:        "empty db path",
			mutate:      func(c *Config) { c.CLI.DBPath = "" },
			errorString: "CLI database path cannot be empty",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.Log.Level = "loud" },
			errorString: `unknown log level "loud"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errorString)
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Gateway.Model = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "gateway model cannot be empty")
}
