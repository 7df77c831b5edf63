package discuss

import (
	"context"
	"log/slog"

	"github.com/kstonekuan/discussion-mcp/internal/config"
	"github.com/kstonekuan/discussion-mcp/internal/logging"
	"github.com/kstonekuan/discussion-mcp/internal/provider/models"
	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// Name is the registered tool name.
const Name = "discuss_with_gemini"

const description = "Engage in extended discussion with Gemini API for reading and summarizing very long text. Useful for complex analysis, detailed summaries, and multi-turn conversations."

// completer defines the outbound call this tool delegates to.
type completer interface {
	Complete(ctx context.Context, params models.CompletionParams) tool.Result
}

// DiscussTool forwards a text and a prompt to Gemini.
type DiscussTool struct {
	completer completer
	config    *config.Config
	logger    *slog.Logger
}

// NewDiscussTool creates a new DiscussTool with injected dependencies.
func NewDiscussTool(c completer, cfg *config.Config, logger *slog.Logger) *DiscussTool {
	if logger == nil {
		logger = logging.Discard()
	}
	return &DiscussTool{
		completer: c,
		config:    cfg,
		logger:    logging.Component(logger, Name),
	}
}

// Definition returns the tool's name, description and schema. Defaults come
// from the Gemini section of the configuration.
func (t *DiscussTool) Definition() tool.Definition {
	return tool.Definition{
		Name:        Name,
		Description: description,
		Schema: tool.Schema{
			{Name: "text", Kind: tool.KindString, Required: true, Description: "The text content to discuss or analyze"},
			{Name: "prompt", Kind: tool.KindString, Required: true, Description: "The prompt or question for Gemini to process"},
			{Name: "model", Kind: tool.KindString, Default: t.config.Gemini.DefaultModel, Description: "The Gemini model to use"},
			{Name: "max_tokens", Kind: tool.KindNumber, Default: t.config.Gemini.DefaultMaxTokens, Description: "Maximum tokens in response"},
			{Name: "temperature", Kind: tool.KindNumber, Default: t.config.Gemini.DefaultTemperature, Description: "Temperature for response generation (0-1)"},
		},
	}
}

// Run builds the call parameters from the validated arguments and delegates.
func (t *DiscussTool) Run(ctx context.Context, args tool.Args) tool.Result {
	var req DiscussRequest
	if err := args.Decode(&req); err != nil {
		return tool.ErrorResultFrom(err)
	}
	if err := req.Validate(); err != nil {
		return tool.ErrorResultFrom(err)
	}

	t.logger.DebugContext(ctx, "discussion requested",
		"model", req.Model,
		"text_bytes", len(req.Text),
		"max_tokens", req.MaxTokens,
		"temperature", req.Temperature,
	)

	return t.completer.Complete(ctx, models.CompletionParams{
		APIKey:          t.config.Gemini.APIKey,
		Text:            req.Text,
		Prompt:          req.Prompt,
		Model:           req.Model,
		MaxOutputTokens: int(req.MaxTokens),
		Temperature:     req.Temperature,
	})
}
