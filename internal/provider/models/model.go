package models

// CompletionParams carries everything one discuss_with_gemini call needs.
// It is built fresh for every invocation and never shared.
type CompletionParams struct {
	APIKey string

	// Text is the material to analyze; Prompt is the instruction applied to it.
	Text   string
	Prompt string

	Model           string
	MaxOutputTokens int
	Temperature     float64
}
