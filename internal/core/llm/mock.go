package llm

import (
	"context"
	"sync"
)

// MockClient implements Client for testing. When CompleteFunc is set it is
// called for every prompt; otherwise canned replies are returned in order.
type MockClient struct {
	CompleteFunc func(ctx context.Context, prompt string) (Completion, error)

	mu      sync.Mutex
	replies []Completion
	next    int

	Prompts []string
}

// NewMockClient returns a mock that replays the given completions in order.
// The last reply is repeated once the script is exhausted.
func NewMockClient(replies ...Completion) *MockClient {
	return &MockClient{replies: replies}
}

func (m *MockClient) Complete(ctx context.Context, prompt string) (Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	if len(m.replies) == 0 {
		return Completion{}, nil
	}

	reply := m.replies[m.next]
	if m.next < len(m.replies)-1 {
		m.next++
	}

	return reply, nil
}

// Calls returns how many completions were requested.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.Prompts)
}
