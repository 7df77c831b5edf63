package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/kstonekuan/discussion-mcp/internal/logging"
	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// toolRegistry is the part of tool.Registry the dispatcher needs.
type toolRegistry interface {
	Definitions() []tool.Definition
	Invoke(ctx context.Context, name string, raw map[string]any) tool.Result
}

// Dispatcher answers JSON-RPC messages. It is shared by every transport.
type Dispatcher struct {
	registry toolRegistry
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher serving the tools in registry.
func NewDispatcher(registry toolRegistry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Dispatcher{registry: registry, logger: logger}
}

// HandleRaw decodes one message and dispatches it. It returns nil when no
// response must be sent.
func (d *Dispatcher) HandleRaw(ctx context.Context, data []byte) *Message {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return newError(nil, CodeInvalidRequest, "batch requests are not supported")
	}

	var msg Message
	if err := json.Unmarshal(trimmed, &msg); err != nil {
		d.logger.Debug("unparseable message", "error", err)
		return newError(nil, CodeParseError, "parse error")
	}
	return d.Handle(ctx, &msg)
}

// Handle dispatches one decoded message.
func (d *Dispatcher) Handle(ctx context.Context, msg *Message) *Message {
	if msg.JSONRPC != jsonRPCVersion || msg.Method == "" {
		// Stray responses from the client need no answer.
		if msg.IsNotification() || msg.Result != nil || msg.Error != nil {
			return nil
		}
		return newError(msg.ID, CodeInvalidRequest, "invalid request")
	}

	if msg.IsNotification() {
		if !strings.HasPrefix(msg.Method, notificationMethodsPrefix) {
			d.logger.Debug("ignoring notification", "method", msg.Method)
		}
		return nil
	}

	d.logger.Debug("request", "method", msg.Method)

	switch msg.Method {
	case MethodInitialize:
		return d.initialize(msg)
	case MethodPing:
		return newResult(msg.ID, struct{}{})
	case MethodToolsList:
		return d.listTools(msg)
	case MethodToolsCall:
		return d.callTool(ctx, msg)
	default:
		return newError(msg.ID, CodeMethodNotFound, "method not found: "+msg.Method)
	}
}

func (d *Dispatcher) initialize(msg *Message) *Message {
	var params InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return newError(msg.ID, CodeInvalidParams, "invalid initialize params")
		}
	}

	version := params.ProtocolVersion
	if version == "" {
		version = ProtocolVersion
	}

	d.logger.Info("client initialized",
		"client", params.ClientInfo.Name,
		"client_version", params.ClientInfo.Version,
		"protocol_version", version,
	)

	return newResult(msg.ID, InitializeResult{
		ProtocolVersion: version,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      ServerInfo{Name: ServerName, Version: ServerVersion},
	})
}

func (d *Dispatcher) listTools(msg *Message) *Message {
	defs := d.registry.Definitions()
	tools := make([]Tool, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema(),
		})
	}
	return newResult(msg.ID, ToolsListResult{Tools: tools})
}

func (d *Dispatcher) callTool(ctx context.Context, msg *Message) *Message {
	var params ToolsCallParams
	if err := json.Unmarshal(msg.Params, &params); err != nil || params.Name == "" {
		return newError(msg.ID, CodeInvalidParams, "invalid tools/call params: name is required")
	}

	result := d.registry.Invoke(ctx, params.Name, params.Arguments)
	return newResult(msg.ID, result)
}
