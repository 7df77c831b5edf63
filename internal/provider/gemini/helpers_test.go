package gemini

import (
	"context"
	"sync/atomic"

	"github.com/kstonekuan/discussion-mcp/internal/testing/mocks"
)

// MockGeminiClient is shared with the other packages' tests.
type MockGeminiClient = mocks.MockGeminiClient

var textResponse = mocks.TextResponse

// factoryFor returns a ClientFactory that always hands out client and
// counts how many clients were built.
func factoryFor(client GeminiClient, built *atomic.Int32) ClientFactory {
	return func(ctx context.Context, apiKey string) (GeminiClient, error) {
		if built != nil {
			built.Add(1)
		}
		return client, nil
	}
}
