package discuss

import (
	"math"

	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// DiscussRequest is the decoded argument set of discuss_with_gemini.
// Optional fields already carry their defaults when decoded from validated args.
type DiscussRequest struct {
	Text   string `mapstructure:"text"`
	Prompt string `mapstructure:"prompt"`
	Model  string `mapstructure:"model"`
	// MaxTokens stays a float until Validate has checked it is a usable count.
	MaxTokens   float64 `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// Validate checks that max_tokens is a whole number between 1 and MaxInt32.
func (r DiscussRequest) Validate() error {
	switch {
	case math.IsNaN(r.MaxTokens) || math.IsInf(r.MaxTokens, 0) || r.MaxTokens != math.Trunc(r.MaxTokens):
		return &tool.ArgumentRangeError{Name: "max_tokens", Reason: "must be a whole number"}
	case r.MaxTokens < 1:
		return &tool.ArgumentRangeError{Name: "max_tokens", Reason: "must be at least 1"}
	case r.MaxTokens > math.MaxInt32:
		return &tool.ArgumentRangeError{Name: "max_tokens", Reason: "must be at most 2147483647"}
	}
	return nil
}
