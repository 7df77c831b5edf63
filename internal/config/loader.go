package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigDir is the directory name under ~/.config
	ConfigDir = "discussion-mcp"
	// EnvPrefix prefixes every environment override, e.g. DISCUSSION_MCP_SERVER_PORT.
	EnvPrefix = "DISCUSSION_MCP"
	// APIKeyEnv is the conventional variable holding the Gemini API key.
	APIKeyEnv = "GEMINI_API_KEY"
)

// configFiles are probed in order under ~/.config/discussion-mcp.
var configFiles = []string{"config.yaml", "config.yml", "config.json"}

// FileSystem abstracts file operations for testability
type FileSystem interface {
	UserHomeDir() (string, error)
	ReadFile(path string) ([]byte, error)
}

// ConfigFileReader implements FileSystem using the real OS for config loading
type ConfigFileReader struct{}

func (ConfigFileReader) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (ConfigFileReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader handles configuration loading with injected dependencies
type Loader struct {
	fs FileSystem
}

// NewLoader creates a production Loader using the real filesystem
func NewLoader() *Loader {
	return &Loader{fs: ConfigFileReader{}}
}

// NewLoaderWithFS creates a Loader with a custom filesystem (for testing)
func NewLoaderWithFS(fs FileSystem) *Loader {
	return &Loader{fs: fs}
}

// Load builds the configuration from, in increasing precedence:
// defaults, the config file, and environment variables.
//
// When path is empty the first of ~/.config/discussion-mcp/config.{yaml,yml,json}
// that exists is used; no file at all is fine. An explicit path must exist.
// Returns error only for parse errors, permission issues, or validation failures.
func (l *Loader) Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("gemini.api_key", APIKeyEnv, EnvPrefix+"_GEMINI_API_KEY"); err != nil {
		return nil, err
	}

	data, configPath, err := l.readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		v.SetConfigType(configType(configPath))
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile returns the file contents and path, or nil data when no file applies.
func (l *Loader) readConfigFile(path string) ([]byte, string, error) {
	if path != "" {
		data, err := l.fs.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read config %s: %w", path, err)
		}
		return data, path, nil
	}

	homeDir, err := l.fs.UserHomeDir()
	if err != nil {
		return nil, "", nil // Use defaults if can't get home dir
	}

	for _, name := range configFiles {
		candidate := filepath.Join(homeDir, ".config", ConfigDir, name)
		data, err := l.fs.ReadFile(candidate)
		if err == nil {
			return data, candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("read config %s: %w", candidate, err)
		}
	}
	return nil, "", nil
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_header_timeout", cfg.Server.ReadHeaderTimeout)
	v.SetDefault("server.max_body_bytes", cfg.Server.MaxBodyBytes)
	v.SetDefault("server.sse_heartbeat", cfg.Server.SSEHeartbeat)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("gemini.api_key", cfg.Gemini.APIKey)
	v.SetDefault("gemini.default_model", cfg.Gemini.DefaultModel)
	v.SetDefault("gemini.default_max_tokens", cfg.Gemini.DefaultMaxTokens)
	v.SetDefault("gemini.default_temperature", cfg.Gemini.DefaultTemperature)
	v.SetDefault("gemini.request_timeout", cfg.Gemini.RequestTimeout)
	v.SetDefault("gemini.max_text_bytes", cfg.Gemini.MaxTextBytes)
	v.SetDefault("gemini.disable_safety_filters", cfg.Gemini.DisableSafetyFilters)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	v.SetDefault("telemetry.service_name", cfg.Telemetry.ServiceName)
	v.SetDefault("telemetry.otlp_endpoint", cfg.Telemetry.OTLPEndpoint)
	v.SetDefault("telemetry.otlp_insecure", cfg.Telemetry.OTLPInsecure)
}

// Load is a convenience function using the default loader
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}
