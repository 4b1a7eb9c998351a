package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
// Si GenerateFunc esta definido tiene prioridad sobre Response/Err.
type MockClient struct {
	Response     string
	Err          error
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu         sync.Mutex
	calls      int
	lastPrompt string
}

func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastPrompt = prompt
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return m.Response, m.Err
}

func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}
