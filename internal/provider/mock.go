package provider

import (
	"context"
	"sync"
)

// MockClient is an in-memory LLMClient for tests and offline runs. It
// replays canned responses in order, repeating the last one when calls
// outnumber responses.
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Prompts   []string
}

// NewMockClient creates a mock that always returns response.
func NewMockClient(response string) *MockClient {
	return &MockClient{Responses: []string{response}}
}

// Name identifies the backend in logs and results.
func (m *MockClient) Name() string { return "mock" }

// Complete records the prompt and replays the next canned response.
func (m *MockClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", nil
	}
	idx := len(m.Prompts) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}
