// Package mocks provides hand-written doubles for external clients.
package mocks

import (
	"context"
	"errors"
	"sync/atomic"

	"google.golang.org/genai"
)

// MockGeminiClient is a mock implementation of gemini.GeminiClient for testing.
type MockGeminiClient struct {
	GenerateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

	calls atomic.Int32
}

// GenerateContent calls the mock function if set, otherwise returns an error.
func (m *MockGeminiClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls.Add(1)
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, model, contents, config)
	}
	return nil, errors.New("GenerateContentFunc not set")
}

// Calls returns how many times GenerateContent ran.
func (m *MockGeminiClient) Calls() int {
	return int(m.calls.Load())
}

// NewTextClient returns a client that answers every call with text.
func NewTextClient(text string) *MockGeminiClient {
	return &MockGeminiClient{
		GenerateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return TextResponse(text), nil
		},
	}
}

// NewErrorClient returns a client that fails every call with err.
func NewErrorClient(err error) *MockGeminiClient {
	return &MockGeminiClient{
		GenerateContentFunc: func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			return nil, err
		},
	}
}

// TextResponse builds a single-candidate response carrying text.
func TextResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: text}},
				},
				FinishReason: genai.FinishReasonStop,
			},
		},
	}
}
