package tool

import (
	"context"
)

// Kind is the type tag of a tool argument.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
)

// Param describes one argument of a tool.
// Optional params (Required == false) are filled with Default when absent.
type Param struct {
	Name        string
	Kind        Kind
	Required    bool
	Default     any
	Description string
}

// Schema is the ordered argument list of a tool.
type Schema []Param

// Definition declares a tool's name, description and argument schema.
type Definition struct {
	Name        string
	Description string
	Schema      Schema
}

// Invocation is a tool call as received from the transport.
type Invocation struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ContentTypeText is the only content block type tools produce.
const ContentTypeText = "text"

// ContentBlock is one item of a tool result.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is returned for every invocation, successful or not.
// Failures are ordinary results carrying a readable message with IsError set.
type Result struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// Text joins the text of all content blocks.
func (r Result) Text() string {
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	var out string
	for _, block := range r.Content {
		out += block.Text
	}
	return out
}

// TextResult builds a single-block successful result.
func TextResult(text string) Result {
	return Result{Content: []ContentBlock{{Type: ContentTypeText, Text: text}}}
}

// ErrorResult builds a single-block failed result.
func ErrorResult(text string) Result {
	return Result{Content: []ContentBlock{{Type: ContentTypeText, Text: text}}, IsError: true}
}

// Handler executes a tool with validated arguments.
// Handlers report failures through the returned Result, never by panicking.
type Handler func(ctx context.Context, args Args) Result
