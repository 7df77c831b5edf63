package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFileSystem implements FileSystem for testing.
type MockFileSystem struct {
	HomeDir     string
	HomeDirErr  error
	Files       map[string][]byte
	ReadFileErr error
}

func (m *MockFileSystem) UserHomeDir() (string, error) {
	return m.HomeDir, m.HomeDirErr
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	data, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

// clearEnv keeps host environment variables from leaking into loader tests.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(APIKeyEnv, "")
	t.Setenv("DISCUSSION_MCP_GEMINI_API_KEY", "")
	t.Setenv("DISCUSSION_MCP_SERVER_PORT", "")
	os.Unsetenv(APIKeyEnv)
	os.Unsetenv("DISCUSSION_MCP_GEMINI_API_KEY")
	os.Unsetenv("DISCUSSION_MCP_SERVER_PORT")
}

// --- HAPPY PATH TESTS ---

func TestLoad_NoConfigFile_ReturnsDefaults(t *testing.T) {
	clearEnv(t)
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files:   map[string][]byte{},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load("")

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "gemini-2.0-flash-001", cfg.Gemini.DefaultModel)
	assert.Equal(t, 8192, cfg.Gemini.DefaultMaxTokens)
	assert.Equal(t, 0.7, cfg.Gemini.DefaultTemperature)
	assert.Empty(t, cfg.Gemini.APIKey)
}

func TestLoad_YAMLFile_OverridesDefaults(t *testing.T) {
	clearEnv(t)
	configYAML := `
server:
  port: 9000
gemini:
  default_model: gemini-2.5-flash
  request_timeout: 30s
log:
  level: debug
`
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/discussion-mcp/config.yaml": []byte(configYAML),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load("")

	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.DefaultModel)
	assert.Equal(t, 30*time.Second, cfg.Gemini.RequestTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8192, cfg.Gemini.DefaultMaxTokens) // Default preserved
	assert.Equal(t, "json", cfg.Log.Format)            // Default preserved
}

func TestLoad_JSONFile_PartialOverride(t *testing.T) {
	clearEnv(t)
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/discussion-mcp/config.json": []byte(`{"gemini": {"default_max_tokens": 1024}}`),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load("")

	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Gemini.DefaultMaxTokens)
	assert.Equal(t, 8787, cfg.Server.Port)
}

func TestLoad_ExplicitPath(t *testing.T) {
	clearEnv(t)
	fs := &MockFileSystem{
		Files: map[string][]byte{
			"/etc/discussion-mcp.yml": []byte("server:\n  host: 127.0.0.1\n"),
		},
	}
	loader := NewLoaderWithFS(fs)

	cfg, err := loader.Load("/etc/discussion-mcp.yml")

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "127.0.0.1:8787", cfg.Address())
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(APIKeyEnv, "secret-key")
	fs := &MockFileSystem{HomeDir: "/home/user", Files: map[string][]byte{}}

	cfg, err := NewLoaderWithFS(fs).Load("")

	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Gemini.APIKey)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCUSSION_MCP_SERVER_PORT", "9100")
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/discussion-mcp/config.json": []byte(`{"server": {"port": 9000}}`),
		},
	}

	cfg, err := NewLoaderWithFS(fs).Load("")

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

// --- UNHAPPY PATH TESTS ---

func TestLoad_MalformedJSON_ReturnsError(t *testing.T) {
	clearEnv(t)
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/discussion-mcp/config.json": []byte(`{"server": `),
		},
	}

	cfg, err := NewLoaderWithFS(fs).Load("")

	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidValue_ReturnsValidationError(t *testing.T) {
	clearEnv(t)
	fs := &MockFileSystem{
		HomeDir: "/home/user",
		Files: map[string][]byte{
			"/home/user/.config/discussion-mcp/config.json": []byte(`{"log": {"format": "xml"}}`),
		},
	}

	cfg, err := NewLoaderWithFS(fs).Load("")

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoad_PermissionDenied_ReturnsError(t *testing.T) {
	clearEnv(t)
	fs := &MockFileSystem{
		HomeDir:     "/home/user",
		ReadFileErr: os.ErrPermission,
	}

	cfg, err := NewLoaderWithFS(fs).Load("")

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrPermission))
}

func TestLoad_MissingExplicitPath_ReturnsError(t *testing.T) {
	clearEnv(t)
	fs := &MockFileSystem{Files: map[string][]byte{}}

	cfg, err := NewLoaderWithFS(fs).Load("/nope.yaml")

	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_HomeDirError_ReturnsDefaults(t *testing.T) {
	clearEnv(t)
	fs := &MockFileSystem{
		HomeDirErr: errors.New("homeless"),
	}

	cfg, err := NewLoaderWithFS(fs).Load("")

	require.NoError(t, err)
	assert.Equal(t, 8787, cfg.Server.Port)
}
