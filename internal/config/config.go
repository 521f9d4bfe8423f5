package config

import (
	"encoding/json"
	"os"
	"strings"

	"zaprelay/internal/models"
)

var (
	ErrMissingInstanceID = models.ConfigError{Message: "missing Z-API instance id (set ZAPI_INSTANCE_ID)"}
	ErrMissingToken      = models.ConfigError{Message: "missing Z-API instance token (set ZAPI_TOKEN)"}
)

const (
	DefaultPort           = "8081"
	DefaultGatewayBaseURL = "https://api.z-api.io"
	DefaultGatewayTimeout = 30
	DefaultReadTimeoutSec = 15
	DefaultIdleTimeoutSec = 60
)

// LoadConfig reads the optional JSON config file, applies environment
// overrides and validates the result. Missing gateway credentials are a
// startup failure.
func LoadConfig(path string) (*models.Config, error) {
	var config models.Config

	if path != "" {
		file, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(file, &config); err != nil {
				return nil, models.ConfigError{Message: "invalid config file: " + err.Error()}
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnvironmentOverrides(&config)
	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyEnvironmentOverrides(c *models.Config) {
	if url := os.Getenv("ZAPI_BASE_URL"); url != "" {
		c.Gateway.BaseURL = url
	}
	if id := os.Getenv("ZAPI_INSTANCE_ID"); id != "" {
		c.Gateway.InstanceID = id
	}
	if token := os.Getenv("ZAPI_TOKEN"); token != "" {
		c.Gateway.Token = token
	}
	// SECURITY: the account-level client token should come from the environment
	if token := os.Getenv("ZAPI_CLIENT_TOKEN"); token != "" {
		c.Gateway.ClientToken = token
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = splitOrigins(origins)
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

func applyDefaults(c *models.Config) {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = DefaultReadTimeoutSec
	}
	// WriteTimeoutSec deliberately has no default: a server-wide write
	// deadline would sever the long-lived event stream.
	if c.Server.IdleTimeoutSec <= 0 {
		c.Server.IdleTimeoutSec = DefaultIdleTimeoutSec
	}
	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = DefaultGatewayBaseURL
	}
	if c.Gateway.TimeoutSec <= 0 {
		c.Gateway.TimeoutSec = DefaultGatewayTimeout
	}
}

func validate(c *models.Config) error {
	if c.Gateway.InstanceID == "" {
		return ErrMissingInstanceID
	}
	if c.Gateway.Token == "" {
		return ErrMissingToken
	}
	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
