package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstonekuan/discussion-mcp/internal/config"
	"github.com/kstonekuan/discussion-mcp/internal/logging"
	"github.com/kstonekuan/discussion-mcp/internal/provider/gemini"
	"github.com/kstonekuan/discussion-mcp/internal/testing/mocks"
	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// executeCommand runs a fresh command tree with the given args and captures stdout/stderr.
func executeCommand(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeTestFile creates a temporary file with the given content and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearAPIKey(t *testing.T) {
	t.Helper()
	t.Setenv(config.APIKeyEnv, "")
	t.Setenv(config.EnvPrefix+"_GEMINI_API_KEY", "")
}

func TestToolsCmd_JSON(t *testing.T) {
	cfgPath := writeTestFile(t, "config.yaml", "log:\n  level: info\n")

	stdout, _, err := executeCommand(t, "tools", "--config", cfgPath)
	require.NoError(t, err)

	var out struct {
		Tools []struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			InputSchema map[string]any `json:"inputSchema"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Tools, 2)
	assert.Equal(t, "think", out.Tools[0].Name)
	assert.Equal(t, "discuss_with_gemini", out.Tools[1].Name)
	assert.Equal(t, []any{"text", "prompt"}, out.Tools[1].InputSchema["required"])
}

func TestToolsCmd_YAML(t *testing.T) {
	cfgPath := writeTestFile(t, "config.yaml", "gemini:\n  default_model: gemini-custom\n")

	stdout, _, err := executeCommand(t, "tools", "--config", cfgPath, "--format", "yaml")
	require.NoError(t, err)

	assert.Contains(t, stdout, "name: think")
	assert.Contains(t, stdout, "name: discuss_with_gemini")
	assert.Contains(t, stdout, "default: gemini-custom")
	assert.Less(t, strings.Index(stdout, "name: think"), strings.Index(stdout, "name: discuss_with_gemini"))
}

func TestToolsCmd_UnknownFormat(t *testing.T) {
	cfgPath := writeTestFile(t, "config.yaml", "log:\n  level: info\n")

	_, _, err := executeCommand(t, "tools", "--config", cfgPath, "--format", "xml")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitConfig, exitErr.Code)
}

func TestConfigCmd_HidesAPIKey(t *testing.T) {
	clearAPIKey(t)
	t.Setenv(config.APIKeyEnv, "super-secret")
	cfgPath := writeTestFile(t, "config.yaml", "server:\n  port: 9999\n")

	stdout, _, err := executeCommand(t, "config", "--config", cfgPath)
	require.NoError(t, err)

	assert.Contains(t, stdout, "port: 9999")
	assert.Contains(t, stdout, "api_key_is_set: true")
	assert.NotContains(t, stdout, "super-secret")
}

func TestConfigCmd_MissingFile(t *testing.T) {
	_, _, err := executeCommand(t, "config", "--config", filepath.Join(t.TempDir(), "nope.yaml"))

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitConfig, exitErr.Code)
}

func TestServeCmd_InvalidFlag(t *testing.T) {
	cfgPath := writeTestFile(t, "config.yaml", "log:\n  level: info\n")

	_, _, err := executeCommand(t, "serve", "--config", cfgPath, "--port", "70000")

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, exitConfig, exitErr.Code)
	assert.Contains(t, exitErr.Message, "server.port")
}

func callDiscuss(t *testing.T, apiKey string, client gemini.GeminiClient) tool.Result {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Gemini.APIKey = apiKey

	srv, err := createServer(Dependencies{
		Config: cfg,
		Logger: logging.Discard(),
		ClientFactory: func(ctx context.Context, key string) (gemini.GeminiClient, error) {
			return client, nil
		},
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"discuss_with_gemini","arguments":{"text":"t","prompt":"p"}}}`
	resp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var msg struct {
		Result tool.Result `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	return msg.Result
}

func TestCreateServer_DiscussEndToEnd(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		client  *mocks.MockGeminiClient
		want    string
		isError bool
	}{
		{"success", "key", mocks.NewTextClient("analysis"), "analysis", false},
		{"missing key", "", mocks.NewTextClient("unused"), "Error: GEMINI_API_KEY is not configured", true},
		{"upstream failure", "key", mocks.NewErrorClient(errors.New("rate limited")), "Error communicating with Gemini: rate limited", true},
		{"empty response", "key", mocks.NewTextClient(""), "Error communicating with Gemini: No response received from Gemini API", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callDiscuss(t, tt.apiKey, tt.client)

			assert.Equal(t, tt.want, result.Text())
			assert.Equal(t, tt.isError, result.IsError)
			if tt.apiKey == "" {
				assert.Zero(t, tt.client.Calls())
			}
		})
	}
}
