package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kstonekuan/discussion-mcp/internal/logging"
	"github.com/kstonekuan/discussion-mcp/internal/provider/models"
	"github.com/kstonekuan/discussion-mcp/internal/tool"
	"google.golang.org/genai"
)

const (
	communicationPrefix = "Error communicating with Gemini: "
	unknownErrorMessage = "Unknown error occurred"
)

// Options tunes an Adapter. The zero value is usable.
type Options struct {
	// DefaultModel is used when a call does not name a model.
	DefaultModel string
	// Timeout bounds each call; zero disables it.
	Timeout time.Duration
	// MaxTextBytes rejects larger texts before any call; zero means unlimited.
	MaxTextBytes int
	// DisableSafetyFilters sets every harm category threshold to off.
	DisableSafetyFilters bool
	Logger               *slog.Logger
}

// Adapter performs discuss calls against Gemini and turns every outcome into
// a tool.Result. It holds no per-call state and is safe for concurrent use.
type Adapter struct {
	newClient ClientFactory
	opts      Options
	logger    *slog.Logger
}

var _ models.Completer = (*Adapter)(nil)

// NewAdapter creates an Adapter that builds a fresh client per call.
func NewAdapter(newClient ClientFactory, opts Options) *Adapter {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Adapter{
		newClient: newClient,
		opts:      opts,
		logger:    logging.Component(logger, "gemini"),
	}
}

// Complete sends prompt and text to Gemini in a single request.
// Failures are returned as error results and never retried.
func (a *Adapter) Complete(ctx context.Context, params models.CompletionParams) tool.Result {
	if params.APIKey == "" {
		a.logger.Warn("gemini call skipped", "code", models.ErrorCodeConfiguration)
		return tool.ErrorResult("Error: " + models.ErrAPIKeyMissing.Error())
	}
	if a.opts.MaxTextBytes > 0 && len(params.Text) > a.opts.MaxTextBytes {
		err := fmt.Errorf("%w (%d bytes, limit %d)", models.ErrTextTooLarge, len(params.Text), a.opts.MaxTextBytes)
		a.logger.Warn("gemini call rejected", "code", models.ErrorCodeTooLarge, "bytes", len(params.Text))
		return tool.ErrorResult("Error: " + err.Error())
	}

	model := params.Model
	if model == "" {
		model = a.opts.DefaultModel
	}

	start := time.Now()
	text, err := a.generate(ctx, model, params)
	if err != nil {
		logArgs := []any{
			"model", model,
			"code", models.Classify(mapGeminiError(err)),
			"duration", time.Since(start),
			"error", err,
		}
		var blocked *models.BlockedError
		if errors.As(err, &blocked) {
			logArgs = append(logArgs, "reason", blocked.Reason)
		}
		a.logger.Error("gemini call failed", logArgs...)
		return communicationError(err)
	}

	a.logger.Info("gemini call completed",
		"model", model,
		"duration", time.Since(start),
		"response_bytes", len(text),
	)
	return tool.TextResult(text)
}

// generate makes the one outbound call. Panics raised by the client are
// converted to errors here.
func (a *Adapter) generate(ctx context.Context, model string, params models.CompletionParams) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	client, err := a.newClient(ctx, params.APIKey)
	if err != nil {
		return "", err
	}

	resp, err := client.GenerateContent(ctx, model,
		genai.Text(buildPrompt(params.Prompt, params.Text)),
		toGenerateConfig(params, a.opts.DisableSafetyFilters),
	)
	if err != nil {
		return "", err
	}

	text = responseText(resp)
	if text == "" {
		if reason := blockedReason(resp); reason != "" {
			return "", &models.BlockedError{Reason: reason}
		}
		return "", models.ErrEmptyResponse
	}
	return text, nil
}

func communicationError(err error) tool.Result {
	msg := errorMessage(err)
	if msg == "" {
		msg = unknownErrorMessage
	}
	return tool.ErrorResult(communicationPrefix + msg)
}
