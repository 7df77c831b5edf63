package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "text"}
)

// Validate checks config values for correctness.
// Returns an error listing every invalid value.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if c.Server.MaxBodyBytes < 1 {
		errs = append(errs, "server.max_body_bytes must be >= 1")
	}
	if c.Server.ReadHeaderTimeout < 0 {
		errs = append(errs, "server.read_header_timeout must be >= 0")
	}
	if c.Server.SSEHeartbeat <= 0 {
		errs = append(errs, "server.sse_heartbeat must be > 0")
	}
	if c.Server.ShutdownTimeout < 0 {
		errs = append(errs, "server.shutdown_timeout must be >= 0")
	}

	// Gemini validation
	if strings.TrimSpace(c.Gemini.DefaultModel) == "" {
		errs = append(errs, "gemini.default_model must not be empty")
	}
	if c.Gemini.DefaultMaxTokens < 1 {
		errs = append(errs, "gemini.default_max_tokens must be >= 1")
	}
	if c.Gemini.DefaultTemperature < 0 || c.Gemini.DefaultTemperature > 2 {
		errs = append(errs, "gemini.default_temperature must be between 0 and 2")
	}
	if c.Gemini.RequestTimeout < 0 {
		errs = append(errs, "gemini.request_timeout must be >= 0")
	}
	if c.Gemini.MaxTextBytes < 0 {
		errs = append(errs, "gemini.max_text_bytes must be >= 0")
	}

	// Log validation
	if !slices.Contains(validLogLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Sprintf("log.level must be one of %v", validLogLevels))
	}
	if !slices.Contains(validLogFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Sprintf("log.format must be one of %v", validLogFormats))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
