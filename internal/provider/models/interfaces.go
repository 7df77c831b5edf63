package models

import (
	"context"

	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// Completer performs one text-generation call.
//
// Complete never returns an error: every failure is reported as an error
// tool.Result so callers can forward it unchanged.
type Completer interface {
	Complete(ctx context.Context, params CompletionParams) tool.Result
}
