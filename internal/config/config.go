package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden by a config file
// or by environment variables (see Loader).
// A Config is built once at startup and treated as read-only afterwards.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" json:"server" yaml:"server"`
	Gemini    GeminiConfig    `mapstructure:"gemini" json:"gemini" yaml:"gemini"`
	Log       LogConfig       `mapstructure:"log" json:"log" yaml:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" json:"telemetry" yaml:"telemetry"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host" json:"host" yaml:"host"`                                        // Default: 0.0.0.0
	Port              int           `mapstructure:"port" json:"port" yaml:"port"`                                        // Default: 8787
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" json:"read_header_timeout" yaml:"read_header_timeout"` // Default: 10s
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes" json:"max_body_bytes" yaml:"max_body_bytes"`          // Default: 32MB
	SSEHeartbeat      time.Duration `mapstructure:"sse_heartbeat" json:"sse_heartbeat" yaml:"sse_heartbeat"`             // Default: 15s
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" json:"shutdown_timeout" yaml:"shutdown_timeout"`    // Default: 10s
}

type GeminiConfig struct {
	// APIKey is usually supplied through GEMINI_API_KEY. Empty is allowed:
	// discuss_with_gemini then reports the missing key instead of calling out.
	APIKey string `mapstructure:"api_key" json:"-" yaml:"-"`

	DefaultModel         string        `mapstructure:"default_model" json:"default_model" yaml:"default_model"`                            // Default: gemini-2.0-flash-001
	DefaultMaxTokens     int           `mapstructure:"default_max_tokens" json:"default_max_tokens" yaml:"default_max_tokens"`             // Default: 8192
	DefaultTemperature   float64       `mapstructure:"default_temperature" json:"default_temperature" yaml:"default_temperature"`          // Default: 0.7
	RequestTimeout       time.Duration `mapstructure:"request_timeout" json:"request_timeout" yaml:"request_timeout"`                      // Default: 120s, 0 disables
	MaxTextBytes         int           `mapstructure:"max_text_bytes" json:"max_text_bytes" yaml:"max_text_bytes"`                         // Default: 0 (unlimited)
	DisableSafetyFilters bool          `mapstructure:"disable_safety_filters" json:"disable_safety_filters" yaml:"disable_safety_filters"` // Default: false
}

type LogConfig struct {
	Level  string `mapstructure:"level" json:"level" yaml:"level"`    // Default: info
	Format string `mapstructure:"format" json:"format" yaml:"format"` // Default: json
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name" json:"service_name" yaml:"service_name"` // Default: discussion-mcp
	// OTLPEndpoint enables trace export over OTLP/HTTP when set (host:port).
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint" yaml:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure" json:"otlp_insecure" yaml:"otlp_insecure"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8787,
			ReadHeaderTimeout: 10 * time.Second,
			MaxBodyBytes:      32 * 1024 * 1024,
			SSEHeartbeat:      15 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Gemini: GeminiConfig{
			DefaultModel:       "gemini-2.0-flash-001",
			DefaultMaxTokens:   8192,
			DefaultTemperature: 0.7,
			RequestTimeout:     120 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "discussion-mcp",
		},
	}
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Address()
}

// Address returns the host:port the server listens on.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
