package think

// ThinkRequest is the decoded argument set of the think tool.
type ThinkRequest struct {
	Thought string `mapstructure:"thought"`
}
