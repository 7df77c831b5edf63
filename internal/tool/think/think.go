package think

import (
	"context"
	"log/slog"

	"github.com/kstonekuan/discussion-mcp/internal/logging"
	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// Name is the registered tool name.
const Name = "think"

const description = "Use the tool to think about something. It will not obtain new information or change the database, but just append the thought to the log. Use it when complex reasoning or some cache memory is needed."

// resultPrefix is prepended to the thought in the echoed result.
const resultPrefix = "Thought: "

// ThinkTool records a thought in the log and echoes it back.
type ThinkTool struct {
	logger *slog.Logger
}

// NewThinkTool creates a new ThinkTool with injected dependencies.
func NewThinkTool(logger *slog.Logger) *ThinkTool {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ThinkTool{logger: logging.Component(logger, Name)}
}

// Definition returns the tool's name, description and schema.
func (t *ThinkTool) Definition() tool.Definition {
	return tool.Definition{
		Name:        Name,
		Description: description,
		Schema: tool.Schema{
			{Name: "thought", Kind: tool.KindString, Required: true, Description: "A thought to think about"},
		},
	}
}

// Run logs the thought and returns it unchanged after the "Thought: " prefix.
func (t *ThinkTool) Run(ctx context.Context, args tool.Args) tool.Result {
	var req ThinkRequest
	if err := args.Decode(&req); err != nil {
		return tool.ErrorResultFrom(err)
	}

	t.logger.InfoContext(ctx, "thought recorded", "thought", req.Thought)

	return tool.TextResult(resultPrefix + req.Thought)
}
