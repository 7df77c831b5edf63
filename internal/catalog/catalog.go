// Package catalog assembles the tools served by discussion-mcp.
package catalog

import (
	"log/slog"

	"github.com/kstonekuan/discussion-mcp/internal/config"
	"github.com/kstonekuan/discussion-mcp/internal/logging"
	"github.com/kstonekuan/discussion-mcp/internal/provider/models"
	"github.com/kstonekuan/discussion-mcp/internal/tool"
	"github.com/kstonekuan/discussion-mcp/internal/tool/discuss"
	"github.com/kstonekuan/discussion-mcp/internal/tool/think"
)

// Build registers every tool and seals the registry. The returned registry
// is read-only and safe to share between transports.
func Build(cfg *config.Config, completer models.Completer, logger *slog.Logger, observer tool.Observer) *tool.Registry {
	if logger == nil {
		logger = logging.Discard()
	}

	opts := []tool.RegistryOption{tool.WithLogger(logging.Component(logger, "registry"))}
	if observer != nil {
		opts = append(opts, tool.WithObserver(observer))
	}
	registry := tool.NewRegistry(opts...)

	thinkTool := think.NewThinkTool(logger)
	registry.Register(thinkTool.Definition(), thinkTool.Run)

	discussTool := discuss.NewDiscussTool(completer, cfg, logger)
	registry.Register(discussTool.Definition(), discussTool.Run)

	registry.Seal()
	return registry
}
