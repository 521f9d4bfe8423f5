package models

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}

type ServerConfig struct {
	Port            string   `json:"port"`
	AllowedOrigins  []string `json:"allowedOrigins"`
	ReadTimeoutSec  int      `json:"readTimeoutSec"`
	WriteTimeoutSec int      `json:"writeTimeoutSec"`
	IdleTimeoutSec  int      `json:"idleTimeoutSec"`
}

// GatewayConfig holds the Z-API connection settings. InstanceID and Token are
// credentials; the server refuses to start without them.
type GatewayConfig struct {
	BaseURL     string `json:"baseUrl"`
	InstanceID  string `json:"instanceId"`
	Token       string `json:"token"`
	ClientToken string `json:"clientToken"`
	TimeoutSec  int    `json:"timeoutSec"`
}

type TracingConfig struct {
	Enabled        bool    `json:"enabled"`
	ServiceName    string  `json:"serviceName"`
	ServiceVersion string  `json:"serviceVersion"`
	Environment    string  `json:"environment"`
	OTLPEndpoint   string  `json:"otlpEndpoint"`
	SampleRate     float64 `json:"sampleRate"`
	UseStdout      bool    `json:"useStdout"`
}

type Config struct {
	LogLevel string        `json:"logLevel"`
	Server   ServerConfig  `json:"server"`
	Gateway  GatewayConfig `json:"gateway"`
	Tracing  TracingConfig `json:"tracing"`
}
