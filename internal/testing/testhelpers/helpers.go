// Package testhelpers provides shared utilities for integration testing
package testhelpers

import (
	"context"
	"sync"

	"github.com/kstonekuan/discussion-mcp/internal/provider/models"
	"github.com/kstonekuan/discussion-mcp/internal/tool"
)

// MockCompleter is a controllable mock for the Gemini adapter
type MockCompleter struct {
	mu            sync.Mutex
	responses     []tool.Result
	responseIndex int
	calls         []models.CompletionParams

	// OnCompleteCalled is a callback for observing Complete calls
	OnCompleteCalled func(models.CompletionParams)
}

// NewMockCompleter creates a new mock completer with no queued responses
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{
		responses: make([]tool.Result, 0),
	}
}

// WithTextResponse adds a text response to the queue
func (m *MockCompleter) WithTextResponse(text string) *MockCompleter {
	m.responses = append(m.responses, tool.TextResult(text))
	return m
}

// WithErrorResponse adds an error response to the queue
func (m *MockCompleter) WithErrorResponse(text string) *MockCompleter {
	m.responses = append(m.responses, tool.ErrorResult(text))
	return m
}

// Complete returns the next queued response. The last response repeats once
// the queue is exhausted; with an empty queue it answers "ok".
func (m *MockCompleter) Complete(_ context.Context, params models.CompletionParams) tool.Result {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	var result tool.Result
	switch {
	case len(m.responses) == 0:
		result = tool.TextResult("ok")
	case m.responseIndex < len(m.responses):
		result = m.responses[m.responseIndex]
		m.responseIndex++
	default:
		result = m.responses[len(m.responses)-1]
	}
	callback := m.OnCompleteCalled
	m.mu.Unlock()

	if callback != nil {
		callback(params)
	}
	return result
}

// Calls returns a copy of every params value Complete received.
func (m *MockCompleter) Calls() []models.CompletionParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.CompletionParams, len(m.calls))
	copy(out, m.calls)
	return out
}
