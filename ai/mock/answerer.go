package mock

import (
	"context"
	"fmt"
	"sync"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via a function field.
type MockAnswerer struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, a canned answer naming the question and context count is returned.
	GenerateAnswerFunc func(ctx context.Context, question string, contexts []string) (string, error)

	mu        sync.Mutex
	callCount int
}

// NewMockAnswerer creates a mock answerer with default canned behavior.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// GenerateAnswer returns a deterministic canned answer unless a custom
// function is injected.
func (m *MockAnswerer) GenerateAnswer(ctx context.Context, question string, contexts []string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, question, contexts)
	}

	return fmt.Sprintf("answer to %q from %d sources", question, len(contexts)), nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockAnswerer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
