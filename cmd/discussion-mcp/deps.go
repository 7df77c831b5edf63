package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kstonekuan/discussion-mcp/internal/catalog"
	"github.com/kstonekuan/discussion-mcp/internal/config"
	"github.com/kstonekuan/discussion-mcp/internal/provider/gemini"
	"github.com/kstonekuan/discussion-mcp/internal/server"
	"github.com/kstonekuan/discussion-mcp/internal/telemetry"
	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// Dependencies holds the components required to run the server.
type Dependencies struct {
	Config        *config.Config
	Logger        *slog.Logger
	ClientFactory gemini.ClientFactory
	// Telemetry is optional; without it invocations are not recorded.
	Telemetry *telemetry.Providers
}

func createCompleter(deps Dependencies) *gemini.Adapter {
	return gemini.NewAdapter(deps.ClientFactory, gemini.Options{
		DefaultModel:         deps.Config.Gemini.DefaultModel,
		Timeout:              deps.Config.Gemini.RequestTimeout,
		MaxTextBytes:         deps.Config.Gemini.MaxTextBytes,
		DisableSafetyFilters: deps.Config.Gemini.DisableSafetyFilters,
		Logger:               deps.Logger,
	})
}

func createRegistry(deps Dependencies) (*tool.Registry, error) {
	var observer tool.Observer
	if deps.Telemetry != nil {
		toolObserver, err := deps.Telemetry.ToolObserver()
		if err != nil {
			return nil, err
		}
		observer = toolObserver
	}
	return catalog.Build(deps.Config, createCompleter(deps), deps.Logger, observer), nil
}

func createServer(deps Dependencies) (*server.Server, error) {
	registry, err := createRegistry(deps)
	if err != nil {
		return nil, err
	}
	return server.New(deps.Config.Server, registry, deps.Logger), nil
}

// loadConfig loads the configuration named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, exitError(exitConfig, "load config: %v", err)
	}
	return cfg, nil
}
