package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setCredentials(t *testing.T) {
	t.Setenv("ZAPI_INSTANCE_ID", "inst-1")
	t.Setenv("ZAPI_TOKEN", "tok-1")
}

func TestLoadConfigDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultGatewayBaseURL, cfg.Gateway.BaseURL)
	assert.Equal(t, DefaultGatewayTimeout, cfg.Gateway.TimeoutSec)
	assert.Equal(t, DefaultReadTimeoutSec, cfg.Server.ReadTimeoutSec)
	assert.Equal(t, DefaultIdleTimeoutSec, cfg.Server.IdleTimeoutSec)
	assert.Zero(t, cfg.Server.WriteTimeoutSec, "no write deadline so the event stream stays open")
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	t.Setenv("ZAPI_INSTANCE_ID", "")
	t.Setenv("ZAPI_TOKEN", "")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Equal(t, ErrMissingInstanceID, err)

	t.Setenv("ZAPI_INSTANCE_ID", "inst-1")
	_, err = LoadConfig("")
	require.Error(t, err)
	assert.Equal(t, ErrMissingToken, err)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	setCredentials(t)
	t.Setenv("ZAPI_BASE_URL", "https://gateway.example.com")
	t.Setenv("ZAPI_CLIENT_TOKEN", "acct-token")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.example.com", cfg.Gateway.BaseURL)
	assert.Equal(t, "acct-token", cfg.Gateway.ClientToken)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigFromFile(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server": {"port": "7777"},
		"gateway": {"timeoutSec": 5}
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "7777", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Gateway.TimeoutSec)
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	setCredentials(t)
	t.Setenv("PORT", "9999")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server": {"port": "7777"}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Server.Port)
}

func TestLoadConfigInvalidFile(t *testing.T) {
	setCredentials(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFileIsFine(t *testing.T) {
	setCredentials(t)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}
